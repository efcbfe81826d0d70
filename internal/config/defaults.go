package config

const (
	defaultPublicDir        = "/var/www/public"
	defaultStateDir         = "~/.local/share/rundispatch"
	defaultLogDir           = "~/.local/share/rundispatch/logs"
	defaultSMTPPort         = 587
	defaultRetentionDays    = 14
	defaultLoginUser        = "public"
	defaultLoginPassword    = "public"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 60
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			PublicDir: defaultPublicDir,
			StateDir:  defaultStateDir,
			LogDir:    defaultLogDir,
		},
		SMTP: SMTP{
			Port: defaultSMTPPort,
		},
		Mail: Mail{
			AppendDefaultRecipients: true,
			LoginUser:               defaultLoginUser,
			LoginPassword:           defaultLoginPassword,
			RetentionDays:           defaultRetentionDays,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
