// Package server verifies payment notifications posted by the platform.
//
// The platform signs every notification with a platform certificate and
// encrypts its resource with the merchant API key. NotificationMiddleware
// checks the signature before the handler runs, then decodes the
// notification envelope and puts it in the request context.
//
// # Basic Usage
//
//	c, _ := client.New(cfg)
//	v := verifier.NewDefaultVerifier(c.Certificates())
//	middleware := server.NewNotificationMiddleware(v,
//	    server.WithAPIKey(cfg.APIKey),
//	    server.WithMaxClockSkew(5*time.Minute),
//	    server.WithLogger(logger),
//	)
//
//	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	    n, _ := server.NotificationFromContext(r.Context())
//	    res, err := n.Decrypt(cfg.APIKey)
//	    if err != nil {
//	        server.WriteAck(w, http.StatusInternalServerError, err.Error())
//	        return
//	    }
//	    var tx client.Transaction
//	    _ = res.Unmarshal(&tx)
//	    server.WriteAck(w, http.StatusOK, "成功")
//	})
//
//	http.Handle("/notify", middleware.Wrap(handler))
//
// # Gin
//
// The same middleware is available as a gin handler:
//
//	r := gin.New()
//	r.POST("/notify", middleware.Gin(), func(c *gin.Context) {
//	    n, _ := server.NotificationFromGin(c)
//	    ...
//	})
//
// # Failures
//
// Missing headers, mismatching signatures and timestamps outside the
// configured skew are answered with 401 and a FAIL ack, which makes the
// platform retry later. SetErrorHandler customizes the net/http response;
// SetOptional lets unsigned requests through without a notification in
// context. OPTIONS requests always pass through.
//
// The request body is buffered for verification and restored for the
// next handler.
package server
