package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"sniprange/internal/command"
	"sniprange/internal/dirs"
	"sniprange/internal/model"
)

// Keys bound to persistent flags of the same name with '-' for '_'.
var flagKeys = []string{
	"tool",
	"audio_format",
	"force_keyframes",
	"format",
	"out_dir",
	"dl_binary",
	"clipboard",
	"verbose",
	"log_level",
	"log_file",
}

// Init wires v with the config search path, SNIPRANGE_* environment
// variables, defaults, and the given flags. A missing config file is not an
// error; a malformed one is.
func Init(v *viper.Viper, flags *pflag.FlagSet, configFile string) error {
	v.SetDefault("tool", command.DefaultTool)
	v.SetDefault("audio_format", command.DefaultAudioCodec)
	v.SetDefault("force_keyframes", true)
	v.SetDefault("format", string(command.FormatAudio))
	v.SetDefault("clipboard", string(model.ClipboardAuto))
	v.SetDefault("log_level", "warn")

	v.SetEnvPrefix("SNIPRANGE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for _, key := range flagKeys {
		if f := flags.Lookup(strings.ReplaceAll(key, "_", "-")); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind flag %s: %w", key, err)
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if cfgDir, err := dirs.ConfigDir(); err == nil {
			v.AddConfigPath(cfgDir)
		}
		v.SetConfigName("config") // config.{yaml|yml|json|toml}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load returns the merged options held by v.
func Load(v *viper.Viper) (model.Options, error) {
	format, err := command.ParseFormat(v.GetString("format"))
	if err != nil {
		return model.Options{}, err
	}
	clip := model.ClipboardMode(strings.ToLower(v.GetString("clipboard")))
	switch clip {
	case model.ClipboardAuto, model.ClipboardOSC52, model.ClipboardNative, model.ClipboardNone:
	default:
		return model.Options{}, fmt.Errorf("invalid clipboard: %q (valid: auto|osc52|native|none)", clip)
	}

	return model.Options{
		Tool:           strings.TrimSpace(v.GetString("tool")),
		AudioFormat:    strings.TrimSpace(v.GetString("audio_format")),
		ForceKeyframes: v.GetBool("force_keyframes"),
		Format:         format,
		OutDir:         v.GetString("out_dir"),
		DLBinary:       v.GetString("dl_binary"),
		Clipboard:      clip,
		Verbose:        v.GetBool("verbose"),
		LogLevel:       v.GetString("log_level"),
		LogFile:        v.GetString("log_file"),
	}, nil
}
