//go:build ignore

// This script generates API keys and the bcrypt admin key hash.
// Run with: go run scripts/generate_keys.go
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func generateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(bytes), nil
}

func main() {
	fmt.Println("=== Appcore Key Generator ===")
	fmt.Println()

	apiKey, err := generateSecureKey(24)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating API key: %v\n", err)
		os.Exit(1)
	}

	adminKey, err := generateSecureKey(24)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating admin key: %v\n", err)
		os.Exit(1)
	}

	adminKeyHash, err := bcrypt.GenerateFromPassword([]byte(adminKey), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing admin key: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Add these to your .env file:")
	fmt.Println()
	fmt.Println("# API Authentication")
	fmt.Printf("API_KEYS=%s\n", apiKey)
	fmt.Printf("ADMIN_KEY_HASH=%s\n", string(adminKeyHash))
	fmt.Println()
	fmt.Println("Give the plaintext admin key to operators and do not store it:")
	fmt.Printf("X-Admin-Key: %s\n", adminKey)
}
