package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hireline/timeline/client"
)

const doctorTimeout = 5 * time.Second

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration and connectivity",
		Long:  "Run diagnostic checks against config, backend reachability, and auth",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor()
		},
	}
}

type checkResult struct {
	Name   string
	Passed bool
	Detail string
	Hint   string
}

func runDoctor() error {
	fmt.Println("\nTimeline Doctor")
	fmt.Println("===============")

	var results []checkResult

	// 1. Config file. Optional, so a missing file is only reported.
	cfgPath, cfg, cfgErr := loadConfigFile()
	if cfgErr != nil {
		results = append(results, checkResult{
			Name: "Config file", Passed: true,
			Detail: fmt.Sprintf("not used (%s)", cfgPath),
		})
		cfg = nil
	} else {
		results = append(results, checkResult{
			Name: "Config file", Passed: true,
			Detail: fmt.Sprintf("found (%s)", cfgPath),
		})
	}

	url, apiKey := resolveSettings(flagURL, flagKey, cfg)

	// 2. Backend URL.
	if url == "" {
		results = append(results, checkResult{
			Name: "Backend URL", Passed: false,
			Hint: "Set --url, HIRELINE_URL, or url in ~/.hireline/config.yaml",
		})
	} else {
		results = append(results, checkResult{
			Name: "Backend URL", Passed: true, Detail: url,
		})
	}

	// 3. API key.
	if apiKey == "" {
		results = append(results, checkResult{
			Name: "API key", Passed: false,
			Hint: "Set --api-key, HIRELINE_API_KEY, or api_key in ~/.hireline/config.yaml",
		})
	} else {
		results = append(results, checkResult{
			Name: "API key", Passed: true, Detail: "configured",
		})
	}

	// 4. Backend reachable. Any HTTP answer counts, including 401.
	reachable := false
	if url != "" {
		if err := doctorCheckHealth(client.New(url)); err != nil {
			results = append(results, checkResult{
				Name: "Backend reachable", Passed: false,
				Detail: url,
				Hint:   fmt.Sprintf("Is the recruiting backend running?\n   Error: %v", err),
			})
		} else {
			reachable = true
			results = append(results, checkResult{
				Name: "Backend reachable", Passed: true, Detail: url,
			})
		}
	}

	// 5. Authentication.
	if reachable && apiKey != "" {
		if err := doctorCheckAuth(client.New(url, client.WithAPIKey(apiKey))); err != nil {
			results = append(results, checkResult{
				Name: "Authentication", Passed: false,
				Hint: fmt.Sprintf("Check your API key. Error: %v", err),
			})
		} else {
			results = append(results, checkResult{
				Name: "Authentication", Passed: true, Detail: "valid",
			})
		}
	}

	fmt.Println()
	allPassed := true
	for _, r := range results {
		mark := "✅"
		if !r.Passed {
			mark = "❌"
			allPassed = false
		}
		if r.Detail != "" {
			fmt.Printf("%s %s: %s\n", mark, r.Name, r.Detail)
		} else {
			fmt.Printf("%s %s\n", mark, r.Name)
		}
		if !r.Passed && r.Hint != "" {
			fmt.Printf("   Hint: %s\n", r.Hint)
		}
	}

	fmt.Println()
	if !allPassed {
		fmt.Println("❌ Some checks failed.")
		return errors.New("doctor found issues")
	}
	fmt.Println("✅ All checks passed!")
	return nil
}

// doctorCheckHealth succeeds when the backend answers at all.
func doctorCheckHealth(c *client.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), doctorTimeout)
	defer cancel()

	err := c.Health(ctx)
	var apiErr *client.APIError
	if err == nil || errors.As(err, &apiErr) {
		return nil
	}
	return err
}

func doctorCheckAuth(c *client.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), doctorTimeout)
	defer cancel()

	err := c.Health(ctx)
	if client.IsUnauthorized(err) {
		return fmt.Errorf("authentication failed: %w", err)
	}
	return err
}
