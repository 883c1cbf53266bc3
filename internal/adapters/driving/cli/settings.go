package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage search settings",
	Long: `View and adjust how matching and ranking behave.

Settings persist in the config file and apply to every vault.`,
	RunE: runSettingsGet,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show current settings",
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Changes one setting and persists it.

Common keys:
  threshold         match strictness, 0 (exact) to 1 (match anything)
  distance          how far a match may stray from its expected location
  name-weight       weight of the document name field
  content-weight    weight of the content preview field
  result-limit      default maximum number of results
  recent-days       recency bonus window, in days
  small-file-size   small-document bonus ceiling, in bytes
  preview-length    characters of content kept per document
  extensions        comma-separated list of indexed extensions
  extended-grammar  enable the extended match grammar (true/false)
  case-sensitive    match case-sensitively (true/false)

Examples:
  chaja settings set threshold 0.4
  chaja settings set extensions .md,.txt,.org`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsGet(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Match]")
	cmd.Printf("  Threshold:         %.2f\n", settings.Threshold)
	cmd.Printf("  Distance:          %d\n", settings.Distance)
	cmd.Printf("  Location:          %d\n", settings.Location)
	cmd.Printf("  Ignore location:   %t\n", settings.IgnoreLocation)
	cmd.Printf("  Min match length:  %d\n", settings.MinMatchCharLength)
	cmd.Printf("  Case sensitive:    %t\n", settings.IsCaseSensitive)
	cmd.Printf("  Extended grammar:  %t\n", settings.UseExtendedGrammar)
	cmd.Printf("  Include matches:   %t\n", settings.IncludeMatches)
	cmd.Printf("  Find all matches:  %t\n", settings.FindAllMatches)
	cmd.Printf("  Field norm weight: %.2f\n", settings.FieldNormWeight)
	cmd.Println()

	cmd.Println("[Fields]")
	cmd.Printf("  Name weight:    %.2f\n", settings.NameWeight)
	cmd.Printf("  Content weight: %.2f\n", settings.ContentWeight)
	cmd.Println()

	cmd.Println("[Ranking]")
	cmd.Printf("  Result limit:    %d\n", settings.ResultLimit)
	cmd.Printf("  Recent window:   %d days\n", int(settings.RecentWindow/(24*time.Hour)))
	cmd.Printf("  Small file size: %d bytes\n", settings.SmallFileSize)
	cmd.Println()

	cmd.Println("[Hydration]")
	cmd.Printf("  Top K:          %d\n", settings.HydrateTopK)
	cmd.Printf("  Batch size:     %d\n", settings.HydrationBatchSize)
	cmd.Printf("  Preview length: %d\n", settings.PreviewLength)
	cmd.Println()

	cmd.Println("[Index]")
	cmd.Printf("  Build batch size: %d\n", settings.BuildBatchSize)
	cmd.Printf("  Extensions:       %s\n", strings.Join(settings.Extensions, ", "))

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]

	// Threshold has a dedicated operation so engines can pick it up
	// without a full settings round trip.
	if key == "threshold" {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s wants a number: %w", key, err)
		}
		if err := settingsService.SetThreshold(v); err != nil {
			return fmt.Errorf("set threshold: %w", err)
		}
		cmd.Printf("Set %s to %s\n", key, value)
		return nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	switch key {
	case "distance":
		settings.Distance, err = strconv.Atoi(value)
	case "location":
		settings.Location, err = strconv.Atoi(value)
	case "ignore-location":
		settings.IgnoreLocation, err = strconv.ParseBool(value)
	case "min-match-length":
		settings.MinMatchCharLength, err = strconv.Atoi(value)
	case "case-sensitive":
		settings.IsCaseSensitive, err = strconv.ParseBool(value)
	case "include-matches":
		settings.IncludeMatches, err = strconv.ParseBool(value)
	case "find-all-matches":
		settings.FindAllMatches, err = strconv.ParseBool(value)
	case "field-norm-weight":
		settings.FieldNormWeight, err = strconv.ParseFloat(value, 64)
	case "extended-grammar":
		settings.UseExtendedGrammar, err = strconv.ParseBool(value)
	case "name-weight":
		settings.NameWeight, err = strconv.ParseFloat(value, 64)
	case "content-weight":
		settings.ContentWeight, err = strconv.ParseFloat(value, 64)
	case "result-limit":
		settings.ResultLimit, err = strconv.Atoi(value)
	case "hydrate-top-k":
		settings.HydrateTopK, err = strconv.Atoi(value)
	case "hydration-batch-size":
		settings.HydrationBatchSize, err = strconv.Atoi(value)
	case "build-batch-size":
		settings.BuildBatchSize, err = strconv.Atoi(value)
	case "recent-days":
		var days int
		days, err = strconv.Atoi(value)
		settings.RecentWindow = time.Duration(days) * 24 * time.Hour
	case "small-file-size":
		settings.SmallFileSize, err = strconv.ParseInt(value, 10, 64)
	case "preview-length":
		settings.PreviewLength, err = strconv.Atoi(value)
	case "extensions":
		settings.Extensions = splitExtensions(value)
	default:
		return fmt.Errorf("unknown setting %q; see 'chaja settings set --help'", key)
	}
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	cmd.Printf("Set %s to %s\n", key, value)
	return nil
}

// splitExtensions parses a comma-separated extension list, dropping
// empty elements.
func splitExtensions(value string) []string {
	parts := strings.Split(value, ",")
	exts := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			exts = append(exts, trimmed)
		}
	}
	return exts
}
