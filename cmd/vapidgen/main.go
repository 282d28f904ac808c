// Command vapidgen prints a fresh VAPID key pair in .env format.
package main

import (
	"fmt"
	"log"

	"farmertwin/services"
)

func main() {
	privateKey, publicKey, err := services.GenerateVAPIDKeys()
	if err != nil {
		log.Fatalf("Failed to generate VAPID keys: %v", err)
	}

	fmt.Printf("VAPID_PUBLIC_KEY=%s\n", publicKey)
	fmt.Printf("VAPID_PRIVATE_KEY=%s\n", privateKey)
}
