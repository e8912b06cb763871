// Package verifier checks the signatures the payment platform puts on API
// responses and asynchronous notifications.
//
// # Signed Message
//
// The platform signs the message
//
//	timestamp\nnonce\nbody\n
//
// with the private key of the certificate named by Wechatpay-Serial. The
// values arrive in the Wechatpay-Timestamp, Wechatpay-Nonce, Wechatpay-Serial
// and Wechatpay-Signature headers; ParamsFromHeader collects them.
//
// # Usage
//
//	manager := certificate.NewManager(nil, lister)
//	v := verifier.NewDefaultVerifier(manager)
//
//	params := verifier.ParamsFromHeader(resp.Header, body)
//	params.APIKey = apiKey
//	ok, err := v.Verify(ctx, params)
//	switch {
//	case err != nil:
//	    // certificate unknown even after a refresh, or refresh failed
//	case !ok:
//	    // signature mismatch
//	}
//
// A mismatching or undecodable signature is reported as (false, nil). Errors
// are reserved for situations where no verdict could be reached.
//
// Verify the raw body bytes whenever possible. Structured bodies are
// re-marshalled, which only matches if the platform produced the same JSON.
package verifier
