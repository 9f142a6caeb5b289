// Command simulate plays bot-only Doppelkopf hands offline and logs each result.
package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.WithError(err).Warn("could not read .env")
	}

	settings, err := settingsFromEnv(os.Getenv)
	if err != nil {
		log.WithError(err).Fatal("invalid settings")
	}

	summary, err := Run(settings, log)
	if err != nil {
		log.WithError(err).Fatal("simulation failed")
	}

	log.WithFields(logrus.Fields{
		"run":         summary.RunID,
		"hands":       summary.Hands,
		"re_wins":     summary.ReWins,
		"kontra_wins": summary.KontraWins,
	}).Info("simulation finished")
	for name, points := range summary.Standings {
		log.WithField("player", name).WithField("points", points).Info("standing")
	}
}
