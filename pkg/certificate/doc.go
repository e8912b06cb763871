// Package certificate manages the platform certificates used to verify
// response and callback signatures.
//
// # Cache
//
// Cache maps certificate serial numbers to verification keys. It is
// append/overwrite only: a refresh merges the fetched batch into what is
// already known and nothing is ever evicted. Default returns the process-wide
// instance; pass your own *Cache to isolate a client.
//
// # Refresh
//
// Manager fetches the encrypted listing through a Lister, decrypts each
// record with the merchant API key and merges the result:
//
//	m := certificate.NewManager(certificate.Default(), lister)
//	if err := m.Refresh(ctx, apiKey); err != nil {
//	    var fe *certificate.FetchError
//	    if errors.As(err, &fe) {
//	        log.Printf("listing failed: HTTP %d", fe.StatusCode)
//	    }
//	}
//
// Resolve looks a serial up and refreshes once on a miss. A serial that is
// still unknown afterwards yields ErrUnknownCertificate.
//
// # Serial Numbers
//
// SerialFromPEM extracts the upper-case hex serial of a certificate, which is
// how a merchant's own serial_no is derived when it is not configured.
package certificate
