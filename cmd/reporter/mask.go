package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rgdevment/service-report/internal/mask"
)

var maskCmd = &cobra.Command{
	Use:   "mask",
	Short: "Apply the form input masks",
}

var maskPhoneCmd = &cobra.Command{
	Use:   "phone <raw>",
	Short: "Mask a Brazilian phone number and show its E.164 form",
	Args:  cobra.ExactArgs(1),
	RunE:  runMaskPhone,
}

var maskCurrencyCmd = &cobra.Command{
	Use:   "currency <raw>",
	Short: "Mask an amount and show its numeric value",
	Args:  cobra.ExactArgs(1),
	RunE:  runMaskCurrency,
}

func runMaskPhone(cmd *cobra.Command, args []string) error {
	masked := mask.Phone(args[0])
	canonical := mask.ToE164(masked)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "masked:    %s\n", masked)
	fmt.Fprintf(out, "canonical: %s\n", canonical)
	fmt.Fprintf(out, "valid:     %t\n", mask.IsValidNumber(canonical))
	return nil
}

func runMaskCurrency(cmd *cobra.Command, args []string) error {
	masked := mask.Currency(args[0])
	value := mask.ParseCurrency(masked)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "masked:  %s\n", masked)
	fmt.Fprintf(out, "numeric: %.2f\n", value)
	fmt.Fprintf(out, "display: %s\n", mask.Brazil().FormatCurrency(value))
	return nil
}
