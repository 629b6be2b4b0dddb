package cmd

import (
	"github.com/chris-regnier/termdiary/internal/shell"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// invalidateCachePostRun is a PostRunE hook that invalidates the prompt cache
// after commands that write entries.
func invalidateCachePostRun(cmd *cobra.Command, args []string) error {
	invalidatePromptCache()
	return nil
}

// invalidatePromptCache never fails the command that triggered it.
func invalidatePromptCache() {
	if appConfig == nil {
		return
	}
	if err := shell.InvalidateCache(appConfig.DataDir); err != nil {
		logger.Debug("prompt cache not invalidated", zap.Error(err))
	}
}

func init() {
	for _, c := range []*cobra.Command{addCmd, editCmd, deleteCmd, importCmd, seedCmd} {
		c.PostRunE = invalidateCachePostRun
	}
}
