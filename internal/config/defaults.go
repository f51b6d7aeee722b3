package config

const (
	defaultFormatVersion     = "v1.3.0.0"
	defaultFilenameSeparator = "_"
	defaultSequenceSeparator = "-"
	defaultVersionPadding    = 4
	defaultFramePadding      = 4
	defaultAssetDir          = "03_Workflow/Assets"
	defaultShotDir           = "03_Workflow/Shots"
	defaultPipelineDir       = "00_Pipeline"
	defaultHookTimeout       = 10
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

var defaultSceneFormats = []string{".ma", ".mb", ".hip", ".hipnc", ".blend", ".max", ".nk", ".c4d", ".aep"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	formats := make([]string, len(defaultSceneFormats))
	copy(formats, defaultSceneFormats)
	return Config{
		Project: Project{
			FormatVersion:              defaultFormatVersion,
			SeparateOutputVersionStack: true,
		},
		Naming: Naming{
			FilenameSeparator: defaultFilenameSeparator,
			SequenceSeparator: defaultSequenceSeparator,
			VersionPadding:    defaultVersionPadding,
			FramePadding:      defaultFramePadding,
		},
		Layout: Layout{
			AssetDir:    defaultAssetDir,
			ShotDir:     defaultShotDir,
			PipelineDir: defaultPipelineDir,
		},
		Plugins: Plugins{
			SceneFormats: formats,
		},
		Hooks: Hooks{
			Enabled:        true,
			TimeoutSeconds: defaultHookTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
