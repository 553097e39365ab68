package ollama

import (
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/kbukum/chatkit/errors"
	"github.com/kbukum/chatkit/logger"
	"github.com/kbukum/chatkit/util"
	"github.com/kbukum/chatkit/validation"
)

// Options are the model control parameters sent under "options". Typed
// fields cover the common parameters; any other option key is kept in Extra.
type Options struct {
	Temperature      *float64 `mapstructure:"temperature" yaml:"temperature"`
	TopP             *float64 `mapstructure:"top_p" yaml:"top_p"`
	TopK             *int     `mapstructure:"top_k" yaml:"top_k"`
	RepeatPenalty    *float64 `mapstructure:"repeat_penalty" yaml:"repeat_penalty"`
	FrequencyPenalty *float64 `mapstructure:"frequency_penalty" yaml:"frequency_penalty"`
	PresencePenalty  *float64 `mapstructure:"presence_penalty" yaml:"presence_penalty"`
	Mirostat         *int     `mapstructure:"mirostat" yaml:"mirostat"`
	MirostatEta      *float64 `mapstructure:"mirostat_eta" yaml:"mirostat_eta"`
	MirostatTau      *float64 `mapstructure:"mirostat_tau" yaml:"mirostat_tau"`
	Seed             *int     `mapstructure:"seed" yaml:"seed"`
	NumCtx           *int     `mapstructure:"num_ctx" yaml:"num_ctx"`
	NumPredict       *int     `mapstructure:"num_predict" yaml:"num_predict"`
	NumGPU           *int     `mapstructure:"num_gpu" yaml:"num_gpu"`
	Stop             []string `mapstructure:"stop" yaml:"stop"`
	TFSZ             *float64 `mapstructure:"tfs_z" yaml:"tfs_z"`
	TypicalP         *float64 `mapstructure:"typical_p" yaml:"typical_p"`

	Extra map[string]any `mapstructure:",remain" yaml:",inline"`
}

// controlParams are the top-level argument keys moved under options.
var controlParams = map[string]bool{
	"temperature":       true,
	"top_p":             true,
	"top_k":             true,
	"repeat_penalty":    true,
	"frequency_penalty": true,
	"presence_penalty":  true,
	"mirostat":          true,
	"mirostat_eta":      true,
	"mirostat_tau":      true,
	"seed":              true,
	"num_ctx":           true,
	"num_predict":       true,
	"num_gpu":           true,
	"stop":              true,
	"tfs_z":             true,
	"typical_p":         true,
}

// requestFields are the top-level argument keys kept as request fields.
var requestFields = map[string]bool{
	"model":           true,
	"format":          true,
	"response_format": true,
	"keep_alive":      true,
	"think":           true,
	"options":         true,
}

// clientManaged keys are set by the client itself and never taken from arguments.
var clientManaged = map[string]bool{
	"messages": true,
	"tools":    true,
	"stream":   true,
}

// Merge overlays o onto the receiver. Set fields of o win.
func (b Options) Merge(o Options) Options {
	out := Options{
		Temperature:      util.Override(b.Temperature, o.Temperature),
		TopP:             util.Override(b.TopP, o.TopP),
		TopK:             util.Override(b.TopK, o.TopK),
		RepeatPenalty:    util.Override(b.RepeatPenalty, o.RepeatPenalty),
		FrequencyPenalty: util.Override(b.FrequencyPenalty, o.FrequencyPenalty),
		PresencePenalty:  util.Override(b.PresencePenalty, o.PresencePenalty),
		Mirostat:         util.Override(b.Mirostat, o.Mirostat),
		MirostatEta:      util.Override(b.MirostatEta, o.MirostatEta),
		MirostatTau:      util.Override(b.MirostatTau, o.MirostatTau),
		Seed:             util.Override(b.Seed, o.Seed),
		NumCtx:           util.Override(b.NumCtx, o.NumCtx),
		NumPredict:       util.Override(b.NumPredict, o.NumPredict),
		NumGPU:           util.Override(b.NumGPU, o.NumGPU),
		Stop:             b.Stop,
		TFSZ:             util.Override(b.TFSZ, o.TFSZ),
		TypicalP:         util.Override(b.TypicalP, o.TypicalP),
		Extra:            util.MergeMaps(b.Extra, o.Extra),
	}
	if o.Stop != nil {
		out.Stop = o.Stop
	}
	return out
}

// Map renders the options as the wire "options" object, or nil when empty.
// Typed fields win over Extra keys of the same name.
func (b Options) Map() map[string]any {
	m := make(map[string]any, len(b.Extra)+4)
	for k, v := range b.Extra {
		m[k] = v
	}
	setPtr(m, "temperature", b.Temperature)
	setPtr(m, "top_p", b.TopP)
	setPtr(m, "top_k", b.TopK)
	setPtr(m, "repeat_penalty", b.RepeatPenalty)
	setPtr(m, "frequency_penalty", b.FrequencyPenalty)
	setPtr(m, "presence_penalty", b.PresencePenalty)
	setPtr(m, "mirostat", b.Mirostat)
	setPtr(m, "mirostat_eta", b.MirostatEta)
	setPtr(m, "mirostat_tau", b.MirostatTau)
	setPtr(m, "seed", b.Seed)
	setPtr(m, "num_ctx", b.NumCtx)
	setPtr(m, "num_predict", b.NumPredict)
	setPtr(m, "num_gpu", b.NumGPU)
	setPtr(m, "tfs_z", b.TFSZ)
	setPtr(m, "typical_p", b.TypicalP)
	if b.Stop != nil {
		m["stop"] = b.Stop
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

func setPtr[T any](m map[string]any, key string, v *T) {
	if v != nil {
		m[key] = *v
	}
}

// Validate checks the ranges the backend enforces.
func (b Options) Validate() error {
	v := validation.New().
		FloatMin("options.temperature", b.Temperature, 0).
		FloatRange("options.top_p", b.TopP, 0, 1).
		FloatRange("options.typical_p", b.TypicalP, 0, 1).
		IntMin("options.top_k", b.TopK, 0).
		IntMin("options.num_ctx", b.NumCtx, 1)
	if b.Mirostat != nil {
		v.Custom(*b.Mirostat >= 0 && *b.Mirostat <= 2, "options.mirostat", "must be 0, 1 or 2")
	}
	return v.Err()
}

// CreateArgs are the request arguments layered from client defaults and
// per-call overrides. Format and ResponseFormat hold raw directive values:
// Format is "json" or a schema document, ResponseFormat is a legacy schema.
type CreateArgs struct {
	Model          string  `mapstructure:"model" validate:"omitempty,max=256"`
	KeepAlive      string  `mapstructure:"keep_alive" validate:"keepalive"`
	Think          *bool   `mapstructure:"think"`
	Format         any     `mapstructure:"format"`
	ResponseFormat any     `mapstructure:"response_format"`
	Options        Options `mapstructure:"options"`
}

// Merge overlays o onto the receiver field by field. Set fields of o win.
func (a CreateArgs) Merge(o CreateArgs) CreateArgs {
	out := a
	out.Model = util.Coalesce(o.Model, a.Model)
	out.KeepAlive = util.Coalesce(o.KeepAlive, a.KeepAlive)
	out.Think = util.Override(a.Think, o.Think)
	if o.Format != nil {
		out.Format = o.Format
	}
	if o.ResponseFormat != nil {
		out.ResponseFormat = o.ResponseFormat
	}
	out.Options = a.Options.Merge(o.Options)
	return out
}

// Validate checks tag constraints and option ranges.
func (a CreateArgs) Validate() error {
	if err := validation.Validate(a); err != nil {
		return err
	}
	return a.Options.Validate()
}

// ParseCreateArgs decodes a free-form argument map. Request fields are kept,
// control parameters move under options, and client-managed or unknown keys
// are dropped with a diagnostic. Keys match case-insensitively. Values of
// the wrong type fail with INVALID_INPUT.
func ParseCreateArgs(raw map[string]any, log *logger.Logger) (CreateArgs, error) {
	if log == nil {
		log = logger.Nop()
	}

	fields := make(map[string]any, len(raw))
	options := make(map[string]any)
	if nested, ok := lookupFold(raw, "options").(map[string]any); ok {
		for k, v := range nested {
			options[strings.ToLower(k)] = v
		}
	}

	for _, k := range util.SortedKeys(raw) {
		key := strings.ToLower(k)
		switch {
		case key == "options":
		case requestFields[key]:
			fields[key] = raw[k]
		case controlParams[key]:
			options[key] = raw[k]
			log.Debug("moving control parameter to options", logger.Fields(logger.FieldKey, k))
		case clientManaged[key]:
			log.Debug("dropped client-managed key from create args", logger.Fields(logger.FieldKey, k))
		default:
			log.Debug("dropped unrecognized key from create args", logger.Fields(logger.FieldKey, k))
		}
	}
	if len(options) > 0 {
		fields["options"] = options
	}

	var args CreateArgs
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &args,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return CreateArgs{}, errors.Internal(err)
	}
	if err := dec.Decode(fields); err != nil {
		return CreateArgs{}, errors.InvalidInput("create_args", err.Error()).WithCause(err)
	}
	if err := args.Validate(); err != nil {
		return CreateArgs{}, err
	}
	return args, nil
}

func lookupFold(m map[string]any, key string) any {
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return nil
}
