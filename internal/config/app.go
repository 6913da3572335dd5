package config

type AppConfig struct {
	Server   ServerConfig
	Game     GameConfig
	Log      LogConfig
	Announce AnnounceConfig
}

func LoadApp() (AppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	serverCfg, err := LoadServer()
	if err != nil {
		return AppConfig{}, err
	}
	gameCfg, err := LoadGame()
	if err != nil {
		return AppConfig{}, err
	}
	announceCfg, err := LoadAnnounce()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Server:   serverCfg,
		Game:     gameCfg,
		Log:      logCfg,
		Announce: announceCfg,
	}, nil
}
