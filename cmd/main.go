package main

import (
	"os"

	"go-appointment-booking/cmd/cli"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		logrus.Errorf("%v", err)
		os.Exit(1)
	}
}
