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
	"encoding/json"
)

// Amount is an order amount in the smallest currency unit
type Amount struct {
	Total    int64  `json:"total"`
	Currency string `json:"currency,omitempty"`
}

// Payer identifies the paying user for JSAPI orders
type Payer struct {
	OpenID string `json:"openid,omitempty"`
}

// GoodsDetail is one line of an order's goods detail
type GoodsDetail struct {
	MerchantGoodsID  string `json:"merchant_goods_id"`
	WechatpayGoodsID string `json:"wechatpay_goods_id,omitempty"`
	GoodsName        string `json:"goods_name,omitempty"`
	Quantity         int64  `json:"quantity"`
	UnitPrice        int64  `json:"unit_price"`
}

// Detail carries optional discount information
type Detail struct {
	CostPrice   int64         `json:"cost_price,omitempty"`
	InvoiceID   string        `json:"invoice_id,omitempty"`
	GoodsDetail []GoodsDetail `json:"goods_detail,omitempty"`
}

// StoreInfo describes the merchant store
type StoreInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	AreaCode string `json:"area_code,omitempty"`
	Address  string `json:"address,omitempty"`
}

// H5Info describes the H5 payment scene
type H5Info struct {
	Type        string `json:"type"`
	AppName     string `json:"app_name,omitempty"`
	AppURL      string `json:"app_url,omitempty"`
	BundleID    string `json:"bundle_id,omitempty"`
	PackageName string `json:"package_name,omitempty"`
}

// SceneInfo describes where the payment happens
type SceneInfo struct {
	PayerClientIP string     `json:"payer_client_ip"`
	DeviceID      string     `json:"device_id,omitempty"`
	StoreInfo     *StoreInfo `json:"store_info,omitempty"`
	H5Info        *H5Info    `json:"h5_info,omitempty"`
}

// SettleInfo controls profit sharing
type SettleInfo struct {
	ProfitSharing bool `json:"profit_sharing"`
}

// TransactionRequest is the body of an H5, Native, APP or JSAPI order.
// appid and mchid are filled in from the client identity.
type TransactionRequest struct {
	Description   string      `json:"description"`
	OutTradeNo    string      `json:"out_trade_no"`
	TimeExpire    string      `json:"time_expire,omitempty"`
	Attach        string      `json:"attach,omitempty"`
	NotifyURL     string      `json:"notify_url"`
	GoodsTag      string      `json:"goods_tag,omitempty"`
	SupportFapiao bool        `json:"support_fapiao,omitempty"`
	Amount        Amount      `json:"amount"`
	Payer         *Payer      `json:"payer,omitempty"`
	Detail        *Detail     `json:"detail,omitempty"`
	SceneInfo     *SceneInfo  `json:"scene_info,omitempty"`
	SettleInfo    *SettleInfo `json:"settle_info,omitempty"`
}

// PrepayResponse is the platform's answer to an order
type PrepayResponse struct {
	PrepayID string `json:"prepay_id,omitempty"`
	CodeURL  string `json:"code_url,omitempty"`
	H5URL    string `json:"h5_url,omitempty"`
}

// TransactionAmount is the amount section of a queried transaction
type TransactionAmount struct {
	Total         int64  `json:"total"`
	PayerTotal    int64  `json:"payer_total"`
	Currency      string `json:"currency"`
	PayerCurrency string `json:"payer_currency"`
}

// Transaction is a queried order, also the decrypted resource of a
// TRANSACTION.SUCCESS notification
type Transaction struct {
	AppID           string            `json:"appid"`
	MchID           string            `json:"mchid"`
	OutTradeNo      string            `json:"out_trade_no"`
	TransactionID   string            `json:"transaction_id"`
	TradeType       string            `json:"trade_type"`
	TradeState      string            `json:"trade_state"`
	TradeStateDesc  string            `json:"trade_state_desc"`
	BankType        string            `json:"bank_type"`
	Attach          string            `json:"attach"`
	SuccessTime     string            `json:"success_time"`
	Payer           Payer             `json:"payer"`
	Amount          TransactionAmount `json:"amount"`
	SceneInfo       *SceneInfo        `json:"scene_info,omitempty"`
	PromotionDetail []json.RawMessage `json:"promotion_detail,omitempty"`
}

// QueryOrderRequest selects an order by platform or merchant id. Exactly one
// is needed; TransactionID wins when both are set.
type QueryOrderRequest struct {
	TransactionID string
	OutTradeNo    string
}

// CombineSceneInfo describes where a combined payment happens
type CombineSceneInfo struct {
	DeviceID      string  `json:"device_id,omitempty"`
	PayerClientIP string  `json:"payer_client_ip"`
	H5Info        *H5Info `json:"h5_info,omitempty"`
}

// CombineAmount is the amount of one sub order
type CombineAmount struct {
	TotalAmount int64  `json:"total_amount"`
	Currency    string `json:"currency"`
}

// SubOrder is one merchant order inside a combined order
type SubOrder struct {
	MchID       string        `json:"mchid"`
	Attach      string        `json:"attach"`
	Amount      CombineAmount `json:"amount"`
	OutTradeNo  string        `json:"out_trade_no"`
	SubMchID    string        `json:"sub_mchid,omitempty"`
	Description string        `json:"description"`
	SettleInfo  *SettleInfo   `json:"settle_info,omitempty"`
}

// CombineTransactionRequest is the body of a combined order.
// combine_appid and combine_mchid are filled in from the client identity.
type CombineTransactionRequest struct {
	CombineOutTradeNo string            `json:"combine_out_trade_no"`
	SceneInfo         *CombineSceneInfo `json:"scene_info,omitempty"`
	SubOrders         []SubOrder        `json:"sub_orders"`
	CombinePayerInfo  *Payer            `json:"combine_payer_info,omitempty"`
	TimeStart         string            `json:"time_start,omitempty"`
	TimeExpire        string            `json:"time_expire,omitempty"`
	NotifyURL         string            `json:"notify_url"`
}

// CombineSubOrderResult is one sub order of a queried combined order
type CombineSubOrderResult struct {
	MchID         string            `json:"mchid"`
	TradeType     string            `json:"trade_type"`
	TradeState    string            `json:"trade_state"`
	BankType      string            `json:"bank_type"`
	Attach        string            `json:"attach"`
	SuccessTime   string            `json:"success_time"`
	TransactionID string            `json:"transaction_id"`
	OutTradeNo    string            `json:"out_trade_no"`
	SubMchID      string            `json:"sub_mchid,omitempty"`
	Amount        TransactionAmount `json:"amount"`
}

// CombineTransaction is a queried combined order
type CombineTransaction struct {
	CombineAppID      string                  `json:"combine_appid"`
	CombineMchID      string                  `json:"combine_mchid"`
	CombineOutTradeNo string                  `json:"combine_out_trade_no"`
	SceneInfo         *CombineSceneInfo       `json:"scene_info,omitempty"`
	SubOrders         []CombineSubOrderResult `json:"sub_orders"`
	CombinePayerInfo  *Payer                  `json:"combine_payer_info,omitempty"`
}

// CloseSubOrder names one sub order to close
type CloseSubOrder struct {
	MchID      string `json:"mchid"`
	OutTradeNo string `json:"out_trade_no"`
	SubMchID   string `json:"sub_mchid,omitempty"`
}

// TradeBillRequest selects a trade bill
type TradeBillRequest struct {
	BillDate string
	SubMchID string
	BillType string
	TarType  string
}

// FundFlowBillRequest selects a fund flow bill
type FundFlowBillRequest struct {
	BillDate    string
	AccountType string
	TarType     string
}

// BillResponse points at a generated bill file
type BillResponse struct {
	HashType    string `json:"hash_type"`
	HashValue   string `json:"hash_value"`
	DownloadURL string `json:"download_url"`
}

// RefundFrom is one funding source of a refund
type RefundFrom struct {
	Account string `json:"account"`
	Amount  int64  `json:"amount"`
}

// RefundAmount is the amount section of a refund request
type RefundAmount struct {
	Refund   int64        `json:"refund"`
	From     []RefundFrom `json:"from,omitempty"`
	Total    int64        `json:"total"`
	Currency string       `json:"currency"`
}

// RefundGoodsDetail is one refunded goods line
type RefundGoodsDetail struct {
	MerchantGoodsID  string `json:"merchant_goods_id"`
	WechatpayGoodsID string `json:"wechatpay_goods_id,omitempty"`
	GoodsName        string `json:"goods_name,omitempty"`
	UnitPrice        int64  `json:"unit_price"`
	RefundAmount     int64  `json:"refund_amount"`
	RefundQuantity   int64  `json:"refund_quantity"`
}

// RefundRequest is the body of a refund. One of TransactionID and
// OutTradeNo is required.
type RefundRequest struct {
	TransactionID string              `json:"transaction_id,omitempty"`
	OutTradeNo    string              `json:"out_trade_no,omitempty"`
	OutRefundNo   string              `json:"out_refund_no"`
	Reason        string              `json:"reason,omitempty"`
	NotifyURL     string              `json:"notify_url,omitempty"`
	FundsAccount  string              `json:"funds_account,omitempty"`
	Amount        RefundAmount        `json:"amount"`
	GoodsDetail   []RefundGoodsDetail `json:"goods_detail,omitempty"`
}

// RefundAmountDetail is the amount section of a refund result
type RefundAmountDetail struct {
	Total            int64  `json:"total"`
	Refund           int64  `json:"refund"`
	PayerTotal       int64  `json:"payer_total"`
	PayerRefund      int64  `json:"payer_refund"`
	SettlementRefund int64  `json:"settlement_refund"`
	SettlementTotal  int64  `json:"settlement_total"`
	DiscountRefund   int64  `json:"discount_refund"`
	Currency         string `json:"currency"`
}

// RefundResponse is a refund as the platform reports it
type RefundResponse struct {
	RefundID            string             `json:"refund_id"`
	OutRefundNo         string             `json:"out_refund_no"`
	TransactionID       string             `json:"transaction_id"`
	OutTradeNo          string             `json:"out_trade_no"`
	Channel             string             `json:"channel"`
	UserReceivedAccount string             `json:"user_received_account"`
	SuccessTime         string             `json:"success_time,omitempty"`
	CreateTime          string             `json:"create_time"`
	Status              string             `json:"status"`
	FundsAccount        string             `json:"funds_account,omitempty"`
	Amount              RefundAmountDetail `json:"amount"`
}
