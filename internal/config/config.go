// Package config handles studio configuration loading and management.
package config

// Config holds all studio settings.
type Config struct {
	Graphics  GraphicsConfig  `yaml:"graphics"`
	Animation AnimationConfig `yaml:"animation"`
	Face      FaceConfig      `yaml:"face"`
	Output    OutputConfig    `yaml:"output"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GraphicsConfig holds canvas and frame pacing settings.
type GraphicsConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
}

// AnimationConfig holds skeletal animation tuning.
type AnimationConfig struct {
	RotationSpeed   float64 `yaml:"rotation_speed"`   // Bone smoothing rate per second
	IKIterations    int     `yaml:"ik_iterations"`    // FABRIK passes per solve
	InfluenceRadius float64 `yaml:"influence_radius"` // Bone to vertex binding radius
	MeshDensity     int     `yaml:"mesh_density"`     // Grid cells per mesh side
	Breathing       bool    `yaml:"breathing"`
}

// FaceConfig holds facial animation settings.
type FaceConfig struct {
	AutoBlink     bool    `yaml:"auto_blink"`
	SpeakingSpeed float64 `yaml:"speaking_speed"`
}

// OutputConfig holds frame export settings.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Frames int    `yaml:"frames"` // Number of frames to render, 0 means one loop
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:  512,
			Height: 768,
			FPS:    60,
		},
		Animation: AnimationConfig{
			RotationSpeed:   5.0,
			IKIterations:    10,
			InfluenceRadius: 0.3,
			MeshDensity:     10,
			Breathing:       true,
		},
		Face: FaceConfig{
			AutoBlink:     true,
			SpeakingSpeed: 1.0,
		},
		Output: OutputConfig{
			Dir:    "frames",
			Frames: 0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
