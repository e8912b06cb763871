// Package signer provides request signing for the payment platform API.
//
// Every outbound call is authenticated with an RSA-SHA256 (PKCS#1 v1.5)
// signature over a canonical message, carried in the Authorization header.
//
// # Canonical Message
//
// The signed message is built from five fields, each followed by a newline:
//
//	GET\n/v3/certificates\n1600000000\nabc123\n\n
//	POST\n/v3/pay/transactions/native\n1600000000\nabc123\n{"appid":"..."}\n
//
// A GET without a body ends with an extra empty line. Paths are relative to
// the API host; use RelativePath to strip the host from absolute URLs.
//
// # Signing Requests
//
// Use DefaultRequestSigner to sign an outgoing request:
//
//	key, err := signer.ParsePrivateKey(pemBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rs := signer.NewDefaultRequestSigner(signer.Credential{
//	    Scheme:   "WECHATPAY2-SHA256-RSA2048",
//	    MchID:    "1900000109",
//	    SerialNo: "1DDE55AD98ED71D6EDD4A4A16996DE7B47773A8C",
//	}, signer.NewRSASigner(key))
//
//	auth, err := rs.Authorize(ctx, "GET", "/v3/certificates", nil)
//	req.Header.Set("Authorization", auth.Header)
//
// A fresh nonce and timestamp are generated for every call.
//
// # Authorization Header
//
//	WECHATPAY2-SHA256-RSA2048 mchid="1900000109",nonce_str="...",timestamp="...",serial_no="...",signature="..."
//
// The field order is fixed by the platform.
//
// # Client-side Payment Parameters
//
// SignJSAPI and SignApp sign the parameters a JSAPI page or mobile app passes
// to the platform's payment SDK after a prepay id has been obtained.
//
// # Error Handling
//
//   - ErrMissingPrivateKey: no private key configured
//   - Context canceled: operation interrupted before signing
//   - Body marshal failure: the request body is not JSON serializable
package signer
