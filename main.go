package main

import (
	"os"

	"github.com/alantheprice/vibecode/cmd"
	"github.com/alantheprice/vibecode/pkg/utils"
)

func main() {
	logger := utils.GetLogger()
	defer func() {
		if err := logger.Close(); err != nil {
			// the logger itself may be broken, so report on stderr
			os.Stderr.WriteString("Error closing logger: " + err.Error() + "\n")
		}
	}()

	if err := cmd.Execute(); err != nil {
		if cat, ok := utils.CategoryOf(err); ok {
			logger.Logf("Application error (%s): %v", cat, err)
		} else {
			logger.Logf("Application error: %v", err)
		}
		// configuration errors are unrecoverable
		if !utils.IsRecoverable(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
