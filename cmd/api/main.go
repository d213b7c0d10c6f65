package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
)

// @title           Harambee Billing API
// @version         1.0
// @description     Campaign donations settled through M-Pesa STK push.

// @contact.name   API Support

// @host      localhost:8080
// @BasePath  /

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
