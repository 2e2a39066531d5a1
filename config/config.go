package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Pipeline struct {
	Name   string `mapstructure:"name"`
	LogLvl string `mapstructure:"log_level"`
}

type ASR struct {
	URL string `mapstructure:"url"`
}

type Paths struct {
	Audio          string `mapstructure:"audio"`
	Clips          string `mapstructure:"clips"`
	Transcriptions string `mapstructure:"transcriptions"`
	Segments       string `mapstructure:"segments"`
	Music          string `mapstructure:"music"`
	Output         string `mapstructure:"output"`
	Vocabulary     string `mapstructure:"vocabulary"`
}

type Video struct {
	FrameRate    int     `mapstructure:"frame_rate"`
	Preset       string  `mapstructure:"preset"`
	CRF          int     `mapstructure:"crf"`
	AudioBitrate string  `mapstructure:"audio_bitrate"`
	MusicGain    float64 `mapstructure:"music_gain"`
}

type Limits struct {
	MaxRecordings int `mapstructure:"max_recordings"`
}

type Root struct {
	Pipeline Pipeline `mapstructure:"pipeline"`
	ASR      ASR      `mapstructure:"asr"`
	Paths    Paths    `mapstructure:"paths"`
	Video    Video    `mapstructure:"video"`
	Limits   Limits   `mapstructure:"limits"`
	Workers  int      `mapstructure:"workers"`
}

// Load reads config.yaml from the given path (or the usual locations when
// empty), with AHMI_* environment overrides.
func Load(path string) (*Root, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("config")
	}
	v.SetEnvPrefix("AHMI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// a missing file falls back to defaults, a broken file does not
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("pipeline.name", "ahmi")
	v.SetDefault("pipeline.log_level", "info")
	v.SetDefault("asr.url", "http://localhost:9000")
	v.SetDefault("paths.audio", "audio")
	v.SetDefault("paths.clips", "clips")
	v.SetDefault("paths.transcriptions", "temp_transcriptions")
	v.SetDefault("paths.segments", "segments")
	v.SetDefault("paths.music", "music/music.mp3")
	v.SetDefault("paths.output", "final_videos")
	v.SetDefault("paths.vocabulary", "config/keywords.yaml")
	v.SetDefault("video.frame_rate", 30)
	v.SetDefault("video.preset", "fast")
	v.SetDefault("video.crf", 23)
	v.SetDefault("video.audio_bitrate", "192k")
	v.SetDefault("video.music_gain", 0.1)
	v.SetDefault("limits.max_recordings", 5)
	v.SetDefault("workers", 2)
}
