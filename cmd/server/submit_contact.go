package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/otharalodge/inquiry-relay/internal/domain"
)

var submitContactCmd = &cobra.Command{
	Use:   "submit-contact",
	Short: "Send one contact inquiry through every configured channel",
	Long: "Formats a contact inquiry from flags, dispatches it like the website would " +
		"and prints the per-channel result as JSON. Exits non-zero unless every channel delivered.",
	RunE: runSubmitContact,
}

func init() {
	f := submitContactCmd.Flags()
	f.String("name", "", "sender name")
	f.String("email", "", "sender email")
	f.String("phone", "", "sender phone (optional)")
	f.String("subject", "", "message subject")
	f.String("message", "", "message body")
	f.String("idempotency-key", "", "optional idempotency key")
}

func runSubmitContact(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.logger.Sync() //nolint:errcheck

	flags := cmd.Flags()
	get := func(name string) string {
		v, _ := flags.GetString(name)
		return v
	}
	form := domain.ContactForm{
		Name:    get("name"),
		Email:   get("email"),
		Phone:   get("phone"),
		Subject: get("subject"),
		Message: get("message"),
	}

	res, _, err := a.svc.SubmitContact(cmd.Context(), form, get("idempotency-key"))
	if err != nil {
		return fmt.Errorf("invalid inquiry: %w", err)
	}

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if !res.Succeeded() {
		return fmt.Errorf("dispatch %s: %w", res.Overall, res.Err())
	}
	return nil
}
