// Command ollamachat sends a prompt to an Ollama model and prints the reply.
//
//	ollamachat -prompt "Why is the sky blue?" -stream
//	ollamachat -config ./config.yml -json -prompt "List three colors as JSON"
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kbukum/chatkit/bootstrap"
	"github.com/kbukum/chatkit/chat"
	"github.com/kbukum/chatkit/chat/ollama"
	"github.com/kbukum/chatkit/config"
	"github.com/kbukum/chatkit/observability"
	"github.com/kbukum/chatkit/validation"
	"github.com/kbukum/chatkit/version"
)

const serviceName = "ollamachat"

type cliConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Ollama    ollama.Config        `yaml:"ollama" mapstructure:"ollama"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

func (c *cliConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Ollama.ApplyDefaults()
}

func (c *cliConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Ollama.Validate(); err != nil {
		return fmt.Errorf("config.ollama: %w", err)
	}
	if err := validation.Validate(&c.Telemetry); err != nil {
		return fmt.Errorf("config.telemetry: %w", err)
	}
	return nil
}

type flags struct {
	configFile  string
	prompt      string
	system      string
	stream      bool
	jsonOutput  bool
	health      bool
	showVersion bool
	countTokens bool
}

func parseFlags(args []string) (flags, error) {
	var f flags
	fs := flag.NewFlagSet(serviceName, flag.ContinueOnError)
	fs.StringVar(&f.configFile, "config", "", "path to config file")
	fs.StringVar(&f.prompt, "prompt", "", "user prompt; read from stdin when empty")
	fs.StringVar(&f.system, "system", "", "system instructions")
	fs.BoolVar(&f.stream, "stream", false, "stream the reply as it is generated")
	fs.BoolVar(&f.jsonOutput, "json", false, "ask the model for a JSON object")
	fs.BoolVar(&f.health, "health", false, "check the server and exit")
	fs.BoolVar(&f.showVersion, "version", false, "print version and exit")
	fs.BoolVar(&f.countTokens, "count-tokens", false, "print the prompt token estimate and exit")
	return f, fs.Parse(args)
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	info := version.Get()
	if f.showVersion {
		_, err := fmt.Fprintln(stdout, serviceName, info.String())
		return err
	}

	var cfg cliConfig
	opts := []config.LoaderOption{config.WithDefaults(map[string]any{
		"name":              serviceName,
		"version":           info.Short(),
		"environment":       "production",
		"logging.level":     "warn",
		"logging.format":    "console",
		"ollama.host":       ollama.DefaultHost,
		"ollama.model":      "llama3.1",
		"ollama.keep_alive": "5m",
		"telemetry.enabled": false,
	})}
	if f.configFile != "" {
		opts = append(opts, config.WithConfigFile(f.configFile))
	}
	if err := config.Load(serviceName, &cfg, opts...); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	shutdown, err := observability.Setup(ctx, app.Name, app.Version, cfg.Environment, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	app.OnStop(bootstrap.Hook(shutdown))

	metrics, err := observability.NewChatMetrics(observability.Meter(serviceName))
	if err != nil {
		return err
	}
	client, err := ollama.New(cfg.Ollama, ollama.WithLogger(app.Logger), ollama.WithMetrics(metrics))
	if err != nil {
		return err
	}
	app.AddHealthChecker(client)
	app.OnStop(client.Close)

	return app.RunTask(ctx, func(ctx context.Context) error {
		if f.health {
			return printJSON(stdout, app.Health(ctx))
		}

		prompt := f.prompt
		if prompt == "" {
			b, err := io.ReadAll(stdin)
			if err != nil {
				return fmt.Errorf("read prompt: %w", err)
			}
			prompt = strings.TrimSpace(string(b))
		}
		if prompt == "" {
			return fmt.Errorf("empty prompt")
		}

		req := buildRequest(f, prompt)
		if f.countTokens {
			n, err := client.CountTokens(req.Messages, req.Tools)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(stdout, n)
			return err
		}
		if f.stream {
			return streamReply(ctx, client, req, stdout)
		}

		res, err := client.Create(ctx, req)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, res.Content)
		return err
	})
}

func buildRequest(f flags, prompt string) *chat.Request {
	var msgs []chat.Message
	if f.system != "" {
		msgs = append(msgs, chat.SystemMessage{Content: f.system})
	}
	msgs = append(msgs, chat.UserMessage{Content: chat.UserText(prompt), Source: "user"})

	req := &chat.Request{Messages: msgs}
	if f.jsonOutput {
		req.JSONOutput = chat.JSONMode()
	}
	return req
}

func streamReply(ctx context.Context, client chat.Client, req *chat.Request, w io.Writer) error {
	events, err := client.CreateStream(ctx, req)
	if err != nil {
		return err
	}
	var streamErr error
	for ev := range events {
		switch {
		case ev.Err != nil:
			streamErr = ev.Err
		case ev.Result != nil:
			fmt.Fprintln(w)
		default:
			fmt.Fprint(w, ev.Text)
		}
	}
	return streamErr
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
