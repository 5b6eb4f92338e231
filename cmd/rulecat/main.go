// rulecat dumps the rule catalog for a record kind, the same view the
// rule-management screens consume.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/junwei-lu/tradescan/constants"
	"github.com/junwei-lu/tradescan/internal/common"
	"github.com/junwei-lu/tradescan/internal/rules"
)

func main() {
	var (
		kindStr = flag.String("kind", "out", "record kind: in|out|monitor")
		refresh = flag.Bool("refresh", false, "force a refresh, bypassing the cache")
	)
	flag.Parse()

	kind, ok := constants.ParseKind(*kindStr)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown --kind %q\n", *kindStr)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	cfg := common.LoadConfig()
	var source rules.Source
	if cfg.Rules.SourceURL != "" {
		source = rules.NewHTTPSource(cfg.Rules.SourceURL, cfg.Rules.FetchTimeout, logger)
	} else if cfg.Rules.LocalPath != "" {
		source = &rules.FileSource{Path: cfg.Rules.LocalPath}
	} else {
		fmt.Fprintln(os.Stderr, "RULES_URL or RULES_LOCAL_PATH is required")
		os.Exit(1)
	}

	catalog := rules.NewCatalog(source, cfg.Rules.CacheTTL, nil, logger)
	sets, err := catalog.GetRules(context.Background(), kind, *refresh)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sets); err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		os.Exit(1)
	}
}
