package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio-grader/internal/server"
)

var (
	tokenSubject string
	tokenHours   int
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an admin token for the cache endpoints",
	Long:  `Mint a signed bearer token that authorizes the DELETE /cache endpoints. Requires ADMIN_SECRET to be configured.`,
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "admin", "Subject claim for the token")
	tokenCmd.Flags().IntVar(&tokenHours, "hours", 24, "Token lifetime in hours")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.AdminSecret == "" {
		return fmt.Errorf("ADMIN_SECRET is not configured")
	}

	tokens, err := server.NewTokenService(cfg.AdminSecret, time.Duration(tokenHours)*time.Hour)
	if err != nil {
		return err
	}
	token, err := tokens.Mint(tokenSubject)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
