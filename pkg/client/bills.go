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

package client

import (
	"context"
	"net/url"
	"sort"
	"strings"
)

const (
	tradeBillPath    = "/v3/bill/tradebill"
	fundFlowBillPath = "/v3/bill/fundflowbill"
)

// TradeBill requests the download link of a trade bill
func (c *Client) TradeBill(ctx context.Context, req TradeBillRequest) (*BillResponse, error) {
	if req.BillDate == "" {
		return nil, missing("bill_date")
	}
	query := billQuery(map[string]string{
		"bill_date": req.BillDate,
		"sub_mchid": req.SubMchID,
		"bill_type": req.BillType,
		"tar_type":  req.TarType,
	})
	return c.bill(ctx, "request trade bill", tradeBillPath+"?"+query)
}

// FundFlowBill requests the download link of a fund flow bill
func (c *Client) FundFlowBill(ctx context.Context, req FundFlowBillRequest) (*BillResponse, error) {
	if req.BillDate == "" {
		return nil, missing("bill_date")
	}
	query := billQuery(map[string]string{
		"bill_date":    req.BillDate,
		"account_type": req.AccountType,
		"tar_type":     req.TarType,
	})
	return c.bill(ctx, "request fund flow bill", fundFlowBillPath+"?"+query)
}

// DownloadBill fetches a bill file from the download_url of a BillResponse.
// The file is returned as-is: CSV text, or gzip when tar_type was GZIP.
func (c *Client) DownloadBill(ctx context.Context, downloadURL string) ([]byte, error) {
	if downloadURL == "" {
		return nil, missing("download_url")
	}
	resp, err := c.transport.Download(ctx, downloadURL)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (c *Client) bill(ctx context.Context, op, path string) (*BillResponse, error) {
	var out BillResponse
	if err := c.get(ctx, op, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// billQuery joins the non-empty params sorted by key
func billQuery(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + url.QueryEscape(params[k])
	}
	return strings.Join(pairs, "&")
}
