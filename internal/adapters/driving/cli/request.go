package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crboyd/phantom/internal/core/domain"
)

var (
	requestData    string
	requestHeaders []string
	requestQuery   []string
	requestNoAuth  bool
)

var requestCmd = &cobra.Command{
	Use:   "request METHOD PATH",
	Short: "Send a request to the Phantom REST API",
	Long: `Send one request to the configured server and print the classified outcome.

PATH is joined to server.base_url unless it is an absolute URL.
Examples:
  phantom request GET /rest/container
  phantom request POST /rest/container --data '{"name": "case 7"}'`,
	Args: cobra.ExactArgs(2),
	RunE: runRequest,
}

func init() {
	requestCmd.Flags().StringVarP(&requestData, "data", "d", "", "JSON request body")
	requestCmd.Flags().StringArrayVarP(&requestHeaders, "header", "H", nil, "extra header as KEY=VALUE (repeatable)")
	requestCmd.Flags().StringArrayVarP(&requestQuery, "query", "q", nil, "query parameter as KEY=VALUE (repeatable)")
	requestCmd.Flags().BoolVar(&requestNoAuth, "no-auth", false, "send without configured credentials")
	rootCmd.AddCommand(requestCmd)
}

func runRequest(cmd *cobra.Command, args []string) error {
	if restCaller == nil {
		return fmt.Errorf("rest client %w", errNotConfigured)
	}

	req, err := buildRequest(args[0], args[1])
	if err != nil {
		return err
	}

	outcome := restCaller.Call(commandContext(cmd), req)

	if verbose {
		for _, entry := range outcome.Debug {
			cmd.PrintErrln(mutedStyle.Render(fmt.Sprintf("%s: %v", entry.Key, entry.Value)))
		}
	}

	if !outcome.OK() {
		cmd.PrintErrln(errorStyle.Render(outcome.Message))
		if outcome.Err == nil {
			return errors.New("request failed")
		}
		return fmt.Errorf("request failed: %w", outcome.Err)
	}

	status := 0
	if outcome.Response != nil {
		status = outcome.Response.StatusCode
	}
	cmd.Println(successStyle.Render(fmt.Sprintf("OK %d", status)))

	if outcome.Payload != nil {
		pretty, err := json.MarshalIndent(outcome.Payload, "", "  ")
		if err != nil {
			return fmt.Errorf("formatting payload: %w", err)
		}
		cmd.Println(string(pretty))
	}
	return nil
}

func buildRequest(method, path string) (domain.Request, error) {
	req := domain.Request{Method: strings.ToUpper(method), Header: http.Header{}}

	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		req.URL = path
	} else {
		req.Path = path
	}

	if requestData != "" {
		if !json.Valid([]byte(requestData)) {
			return domain.Request{}, fmt.Errorf("--data is not valid JSON: %w", domain.ErrInvalidInput)
		}
		req.Body = json.RawMessage(requestData)
	}

	for _, h := range requestHeaders {
		k, v, err := splitPair(h)
		if err != nil {
			return domain.Request{}, fmt.Errorf("--header %w", err)
		}
		req.Header.Add(k, v)
	}

	if len(requestQuery) > 0 {
		req.Query = make(map[string]string, len(requestQuery))
		for _, q := range requestQuery {
			k, v, err := splitPair(q)
			if err != nil {
				return domain.Request{}, fmt.Errorf("--query %w", err)
			}
			req.Query[k] = v
		}
	}

	if requestNoAuth {
		req.AuthMode = domain.AuthNone
	}
	return req, nil
}

// splitPair parses KEY=VALUE.
func splitPair(s string) (string, string, error) {
	k, v, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(k) == "" {
		return "", "", fmt.Errorf("%q must be KEY=VALUE: %w", s, domain.ErrInvalidInput)
	}
	return strings.TrimSpace(k), v, nil
}
