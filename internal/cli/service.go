package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"resonance-vars/internal/adapters"
	"resonance-vars/internal/app"
	"resonance-vars/internal/shared"
)

const storeFileName = adapters.DefaultStoreFileName

func newAppService() app.Service {
	store := adapters.NewVariableStoreFileAdapter(storePath())
	return app.NewService(store, adapters.NewStatusLogAdapter())
}

func storePath() string {
	if path := strings.TrimSpace(viper.GetString("store")); path != "" {
		return shared.ExpandHome(path)
	}
	return defaultStorePath()
}

func defaultStorePath() string {
	return shared.ExpandHome(filepath.Join("~", ".config", "resonance", storeFileName))
}
