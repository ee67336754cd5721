package main

import (
	"fmt"

	"github.com/IfedayoAwe/corp-payment-gateway/config"
	"github.com/IfedayoAwe/corp-payment-gateway/utils"
	"github.com/spf13/cobra"
)

var hashCost int

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print a bcrypt hash for a seed file password_hash entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runHashPassword,
}

func init() {
	hashPasswordCmd.Flags().IntVar(&hashCost, "cost", 0, "bcrypt cost (defaults to PASSWORD_HASH_COST)")
}

func runHashPassword(cmd *cobra.Command, args []string) error {
	cost := hashCost
	if cost == 0 {
		cost = config.Load().PasswordHashCost
	}

	hash, err := utils.HashPassword(args[0], cost)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}
