package main

import (
	"context"
	"time"

	"github.com/tabesh/tabesh-auth/internal/app"
)

func main() {
	application := app.New()    // Initialize the application
	wait := application.Start() // Start the login session and the local verifier
	<-wait                      // Wait for the redirect or a termination signal
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	application.Stop(ctx) // Stop the application gracefully
}
