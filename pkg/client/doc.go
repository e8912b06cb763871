// Package client is a merchant client for the payment platform's APIv3.
//
// A Client is built once from a Config. Construction validates the identity
// (merchant id, merchant certificate and private key are required), parses the
// private key and derives the certificate serial when it is not given.
//
//	c, err := client.New(client.Config{
//	    AppID:      "wxd678efh567hg6787",
//	    MchID:      "1900000109",
//	    PublicCert: certPEM,
//	    PrivateKey: keyPEM,
//	    APIKey:     apiKey,
//	    Logger:     logger,
//	})
//
// # Orders
//
// Every operation takes a context and a typed request. Required identifiers
// are checked before anything is sent and reported as ErrMissingField:
//
//	resp, err := c.TransactionsNative(ctx, &client.TransactionRequest{
//	    Description: "QQ doll",
//	    OutTradeNo:  "1217752501201407033233368018",
//	    NotifyURL:   "https://merchant.example.com/notify",
//	    Amount:      client.Amount{Total: 100, Currency: "CNY"},
//	})
//
// TransactionsApp and TransactionsJSAPI return the signed parameters the
// mobile SDK or in-app payment call expects instead of the bare prepay id.
// Combined orders, order queries, closing, bills and refunds follow the same
// shape.
//
// Platform errors come back as *transport.APIError:
//
//	var apiErr *transport.APIError
//	if errors.As(err, &apiErr) && apiErr.Code == "ORDER_NOT_EXIST" {
//	    ...
//	}
//
// # Verification and Decryption
//
// VerifySign checks a platform signature, fetching the platform
// certificates on first use. Decrypt opens encrypted notification
// resources. Both accept a per-call API key; when the client was built
// without one, the first key passed in is remembered.
//
// Certificates are kept in certificate.Default() unless Config.Cache is set,
// so clients in one process share what any of them has fetched.
package client
