package main

import (
	"os"

	"umeng-push/cmd"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := cmd.Run(); err != nil {
		log.Errorf("umeng-push: %s", err)
		os.Exit(2)
	}
}
