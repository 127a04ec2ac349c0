package app

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"techtweets/internal/agents/tweet-agent/agent"
	"techtweets/internal/agents/tweet-agent/config"
	"techtweets/internal/agents/tweet-agent/segment"
	"techtweets/internal/agents/tweet-agent/topic"
	"techtweets/pkg/api/auth"
	"techtweets/pkg/api/twitter"
	"techtweets/pkg/logging"
	"techtweets/pkg/state"
	"techtweets/pkg/x/httpx"
	"techtweets/pkg/x/llm"
)

const (
	outputText = "text"
	outputJSON = "json"

	// reportAuto is what a bare --report resolves to.
	reportAuto = "auto"
)

type options struct {
	dryRun      bool
	mode        string
	topic       string
	topicsFile  string
	provider    string
	model       string
	maxAttempts int
	output      string
	report      string
}

// NewRootCmd builds the CLI. The root command with no subcommand behaves like run.
func NewRootCmd(log logging.Entry) *cobra.Command {
	if log == nil {
		log = logging.Discard()
	}
	o := &options{}

	root := &cobra.Command{
		Use:           "tweet-agent",
		Short:         "Generate a tech tweet thread with an LLM and post it to X",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd, log)
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVar(&o.dryRun, "dry-run", false, "print the thread instead of publishing it")
	pf.StringVar(&o.mode, "mode", string(segment.ModeThread), "output mode: thread|single")
	pf.StringVar(&o.topic, "topic", "", "topic name from the catalog (default: random)")
	pf.StringVar(&o.topicsFile, "topics-file", "", "YAML topic catalog replacing the built-in one")
	pf.StringVar(&o.provider, "provider", "", "llm provider: gemini|openai (default: $LLM_PROVIDER or gemini)")
	pf.StringVar(&o.model, "model", "", "llm model (default: $LLM_MODEL or the provider default)")
	pf.IntVar(&o.maxAttempts, "max-attempts", 0, "generations to try before giving up on short output (default: $TWEET_AGENT_MAX_ATTEMPTS or 3)")
	pf.StringVar(&o.output, "output", outputText, "output format: text|json")
	pf.StringVar(&o.report, "report", "", "write a JSON run report: --report=PATH, or bare --report for the user cache dir")
	pf.Lookup("report").NoOptDefVal = reportAuto

	root.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Generate and publish one thread",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd, log)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "topics",
		Short: "List the topic catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.listTopics(cmd)
		},
	})

	return root
}

func (o *options) validate() (segment.Mode, error) {
	mode, err := segment.ParseMode(o.mode)
	if err != nil {
		return "", &config.ConfigurationError{Reason: err.Error()}
	}
	if o.output != outputText && o.output != outputJSON {
		return "", &config.ConfigurationError{Reason: fmt.Sprintf("unknown output format %q (want text or json)", o.output)}
	}
	if o.maxAttempts < 0 {
		return "", &config.ConfigurationError{Reason: "--max-attempts must be positive"}
	}
	return mode, nil
}

func (o *options) catalog() ([]topic.Topic, error) {
	if o.topicsFile == "" {
		return topic.DefaultCatalog()
	}
	topics, err := topic.LoadCatalog(o.topicsFile)
	if err != nil {
		return nil, &config.ConfigurationError{Reason: err.Error()}
	}
	return topics, nil
}

func (o *options) listTopics(cmd *cobra.Command) error {
	if _, err := o.validate(); err != nil {
		return err
	}
	topics, err := o.catalog()
	if err != nil {
		return err
	}
	return writeTopics(cmd.OutOrStdout(), o.output, topics)
}

func (o *options) run(cmd *cobra.Command, log logging.Entry) error {
	ctx := cmd.Context()
	mode, err := o.validate()
	if err != nil {
		return err
	}

	topics, err := o.catalog()
	if err != nil {
		return err
	}
	if o.topic != "" {
		if _, ok := topic.Find(topics, o.topic); !ok {
			return &config.ConfigurationError{Reason: fmt.Sprintf("unknown topic %q (see the topics command)", o.topic)}
		}
	}

	cfg, err := config.Load(config.Overrides{
		Provider:    o.provider,
		Model:       o.model,
		DryRun:      o.dryRun,
		MaxAttempts: o.maxAttempts,
	})
	if err != nil {
		return err
	}

	selector, err := topic.NewSelector(topics, nil)
	if err != nil {
		return &config.ConfigurationError{Reason: err.Error()}
	}

	genHTTP, err := httpx.NewClient(httpx.ClientOptions{
		Timeout:     cfg.GenerationTimeout,
		UseEnvProxy: true,
	})
	if err != nil {
		return &config.ConfigurationError{Reason: "proxy: " + err.Error()}
	}
	gen, err := llm.NewGenerator(ctx, genHTTP, cfg.LLM)
	if err != nil {
		return &config.ConfigurationError{Reason: err.Error()}
	}

	deps := agent.Deps{
		Selector:  selector,
		Generator: gen,
		Log:       log,
		Handle:    cfg.TwitterHandle,
	}
	if !cfg.DryRun {
		pub, err := newPublisher(cmd, cfg)
		if err != nil {
			return err
		}
		deps.Publisher = pub
	}

	runner, err := agent.NewRunner(deps)
	if err != nil {
		return err
	}

	started := time.Now().UTC()
	res, runErr := runner.Run(ctx, agent.Options{
		Mode:        mode,
		DryRun:      cfg.DryRun,
		MaxAttempts: cfg.MaxAttempts,
		TopicName:   o.topic,
	})

	if o.report != "" && res.RunID != "" {
		path := o.report
		if path == reportAuto {
			path = state.ReportFile(res.RunID)
		}
		if err := state.SaveJSONFileIndented(path, newReport(res, runErr, started)); err != nil {
			log.WithError(err).WithField("path", path).Warn("write report failed")
		} else {
			log.WithField("path", path).Info("report written")
		}
	}

	if runErr != nil {
		return runErr
	}
	return writeResult(cmd.OutOrStdout(), o.output, res)
}

func newPublisher(cmd *cobra.Command, cfg config.Config) (*twitter.Client, error) {
	base, err := httpx.NewClient(httpx.ClientOptions{
		Timeout:     cfg.PublishTimeout,
		UseEnvProxy: true,
	})
	if err != nil {
		return nil, &config.ConfigurationError{Reason: "proxy: " + err.Error()}
	}
	authed, err := auth.NewTwitterHTTPClient(cmd.Context(), base, cfg.Twitter)
	if err != nil {
		return nil, &config.ConfigurationError{Reason: err.Error()}
	}
	return twitter.NewClient(cfg.TwitterAPIBase, authed), nil
}
