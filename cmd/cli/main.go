package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kardex-cli",
		Short: "Kardex CLI tool",
		Long:  `A command line interface for interacting with the Kardex inventory API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Kardex API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(newBalanceCommand())
	rootCmd.AddCommand(newTransformCommand())
	rootCmd.AddCommand(newReconcileCommand())

	return rootCmd
}

func newBalanceCommand() *cobra.Command {
	var warehouseID int64

	cmd := &cobra.Command{
		Use:   "balance <product-id>",
		Short: "Show the stock position for a product",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			path := "/api/v1/balances/" + args[0]
			if warehouseID != 0 {
				path = fmt.Sprintf("%s?warehouse_id=%d", path, warehouseID)
			}
			getJSON(path)
		},
	}

	cmd.Flags().Int64Var(&warehouseID, "warehouse", 0, "Warehouse ID (0 means all warehouses)")

	return cmd
}

func newTransformCommand() *cobra.Command {
	var (
		inputProduct  int64
		outputProduct int64
		warehouse     int64
		quantity      string
		actor         string
		yield         string
		overhead      string
		requestID     string
	)

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Convert stock of one product into another",
		Run: func(cmd *cobra.Command, args []string) {
			payload := map[string]any{
				"input_product_id":  inputProduct,
				"input_quantity":    quantity,
				"output_product_id": outputProduct,
				"warehouse_id":      warehouse,
				"actor_id":          actor,
			}
			if yield != "" {
				payload["yield"] = yield
			}
			if overhead != "" {
				payload["overhead_cost"] = overhead
			}
			if requestID != "" {
				payload["transformation_id"] = requestID
			}
			postJSON("/api/v1/transformations/", payload)
		},
	}

	cmd.Flags().Int64Var(&inputProduct, "input", 0, "Input product ID")
	cmd.Flags().Int64Var(&outputProduct, "output", 0, "Output product ID")
	cmd.Flags().Int64Var(&warehouse, "warehouse", 0, "Warehouse ID")
	cmd.Flags().StringVar(&quantity, "quantity", "", "Input quantity to consume")
	cmd.Flags().StringVar(&actor, "actor", "", "Actor ID recorded on the movements")
	cmd.Flags().StringVar(&yield, "yield", "", "Yield override in (0, 1]")
	cmd.Flags().StringVar(&overhead, "overhead", "", "Overhead cost added to the output valuation")
	cmd.Flags().StringVar(&requestID, "id", "", "Transformation ID for idempotent retries")

	cobra.CheckErr(cmd.MarkFlagRequired("input"))
	cobra.CheckErr(cmd.MarkFlagRequired("output"))
	cobra.CheckErr(cmd.MarkFlagRequired("warehouse"))
	cobra.CheckErr(cmd.MarkFlagRequired("quantity"))
	cobra.CheckErr(cmd.MarkFlagRequired("actor"))

	return cmd
}

func newReconcileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Replay the movement ledger and report drifted stock levels",
		Run: func(cmd *cobra.Command, args []string) {
			postJSON("/api/v1/reconciliation", nil)
		},
	}
}

func getJSON(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func postJSON(path string, payload any) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			fmt.Printf("Failed to encode request: %v\n", err)
			os.Exit(1)
		}
		body = bytes.NewReader(data)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", body)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func printResponse(resp *http.Response) {
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 300 {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}

	fmt.Println(pretty.String())
}
