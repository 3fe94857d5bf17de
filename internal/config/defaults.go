package config

const (
	defaultInputRoot     = "."
	defaultOutputRoot    = "."
	defaultManifestDir   = "."
	defaultFrameInterval = 30
	defaultWidth         = 1920
	defaultHeight        = 1080
	defaultOrientation   = OrientationHorizontal
	defaultRatioLong     = 16
	defaultRatioShort    = 9
	defaultFFmpegBinary  = "ffmpeg"
	defaultFFprobeBinary = "ffprobe"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"

	fieldsEnvVar = "FIELDPREP_FIELDS"
)

// Orientation targets accepted by normalize.orientation.
const (
	OrientationNone       = "none"
	OrientationHorizontal = "horizontal"
	OrientationVertical   = "vertical"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InputRoot:   defaultInputRoot,
			OutputRoot:  defaultOutputRoot,
			ManifestDir: defaultManifestDir,
		},
		Extraction: Extraction{
			FrameInterval: defaultFrameInterval,
			Videos:        true,
			Images:        true,
		},
		Normalize: Normalize{
			Width:       defaultWidth,
			Height:      defaultHeight,
			Resize:      true,
			Orientation: defaultOrientation,
			Crop:        true,
			RatioLong:   defaultRatioLong,
			RatioShort:  defaultRatioShort,
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
