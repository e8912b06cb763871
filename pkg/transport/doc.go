// Package transport sends signed requests to the payment platform API.
//
// HTTPTransport wraps a resty client. Every request is authorized with a
// signer.RequestAuthorizer: a fresh nonce and timestamp are drawn, the
// canonical message over the host-relative path and the exact body bytes is
// signed, and the result is sent in the Authorization header.
//
// # Usage
//
//	authorizer := signer.NewDefaultRequestSigner(
//	    signer.Credential{MchID: "1900000109", SerialNo: serial},
//	    signer.NewRSASigner(privateKey),
//	)
//	t := transport.NewHTTPTransport(authorizer,
//	    transport.WithTimeout(10*time.Second),
//	    transport.WithLogger(logger),
//	)
//
//	resp, err := t.Post(ctx, "/v3/pay/transactions/native", order)
//	var apiErr *transport.APIError
//	if errors.As(err, &apiErr) {
//	    log.Printf("platform said %s: %s", apiErr.Code, apiErr.Message)
//	}
//
// Non-2xx responses are returned together with an *APIError so callers can
// still inspect headers and body.
//
// # Response Verification
//
// WithResponseVerifier checks the Wechatpay-* signature headers on every 2xx
// API response and fails with ErrInvalidResponseSignature on a mismatch.
// Bill downloads and the certificate listing are exempt.
//
// # Certificate Listing
//
// CertificateLister implements certificate.Lister on top of an HTTPTransport,
// turning listing failures into *certificate.FetchError.
package transport
