// Package aead decrypts the AES-256-GCM payloads the platform uses for
// certificate bundles and callback resources.
//
// Ciphertexts arrive base64 encoded with the 16 byte authentication tag
// appended. The key is the merchant's 32 byte API key; the nonce and
// associated data travel next to the ciphertext:
//
//	res, err := aead.Decrypt(resource.Ciphertext, resource.AssociatedData, resource.Nonce, apiKey)
//	if errors.Is(err, aead.ErrAuthTagMismatch) {
//	    // tampered or wrong key
//	}
//
//	if res.IsStructured() {
//	    var tx Transaction
//	    _ = res.Unmarshal(&tx)
//	} else {
//	    pem := res.String()
//	}
package aead
