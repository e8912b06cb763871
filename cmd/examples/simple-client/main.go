// Copyright (C) 2025 SAGE-X Project
//
// This file is part of sage-pay-go.
//
// sage-pay-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// sage-pay-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with sage-pay-go.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sage-x-project/sage-pay-go/internal/config"
	"github.com/sage-x-project/sage-pay-go/internal/logging"
	"github.com/sage-x-project/sage-pay-go/pkg/client"
)

func main() {
	configPath := flag.String("config", "", "path to a sagepay YAML config")
	notifyURL := flag.String("notify-url", "https://merchant.example.com/notify", "payment notification URL")
	total := flag.Int64("total", 1, "order amount in fen")
	flag.Parse()

	if err := run(*configPath, *notifyURL, *total); err != nil {
		fmt.Fprintf(os.Stderr, "simple-client: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, notifyURL string, total int64) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	clientCfg, err := cfg.ClientConfig(logger, nil)
	if err != nil {
		return err
	}
	c, err := client.New(clientCfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// Loads platform certificates up front so response checks never stall
	// a payment call.
	if err := c.FetchCertificates(ctx, nil); err != nil {
		return err
	}
	logger.Info("platform certificates loaded", zap.Strings("serials", c.Certificates().Cache().Serials()))

	outTradeNo := "SP" + time.Now().Format("20060102150405") + uuid.NewString()[:8]
	prepay, err := c.TransactionsNative(ctx, &client.TransactionRequest{
		Description: "sage-pay-go sample order",
		OutTradeNo:  outTradeNo,
		NotifyURL:   notifyURL,
		Amount:      client.Amount{Total: total, Currency: "CNY"},
	})
	if err != nil {
		return err
	}
	fmt.Printf("out_trade_no: %s\ncode_url:     %s\n", outTradeNo, prepay.CodeURL)

	tx, err := c.QueryOrder(ctx, client.QueryOrderRequest{OutTradeNo: outTradeNo})
	if err != nil {
		return err
	}
	fmt.Printf("trade_state:  %s\n", tx.TradeState)

	return nil
}
