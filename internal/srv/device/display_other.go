//go:build !amd64
// +build !amd64

package device

import "github.com/sirupsen/logrus"

type simulationWindow struct{}

func (d *Display) startSimulation() {
	logrus.Warnf("Simulation window is only available on amd64")
}

func (d *Display) invalidateSimulationWindow() {
}
