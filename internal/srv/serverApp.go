package srv

import (
	"github.com/jypelle/vekislide/internal/images"
	"github.com/jypelle/vekislide/internal/srv/config"
	"github.com/jypelle/vekislide/internal/srv/decode"
	"github.com/jypelle/vekislide/internal/srv/device"
	"github.com/jypelle/vekislide/internal/srv/slideshow"
	"github.com/jypelle/vekislide/internal/srv/storage"
	"github.com/jypelle/vekislide/internal/version"
	"github.com/sirupsen/logrus"
	"image/color"
	"os"
	"time"
)

type ServerApp struct {
	*config.ServerConfig
	displayDevice    *device.Display
	touchPanelDevice *device.TouchPanel
	buttonsDevice    *device.Buttons
	inputDevice      *device.Input
	media            *storage.Media

	slideshowController *slideshow.Controller

	startTime time.Time
}

func NewServerApp(configDir string, debugMode bool, simulationMode bool) *ServerApp {

	logrus.Debugf("Creation of vekislide server %s ...", version.AppVersion.String())

	app := &ServerApp{
		ServerConfig: config.NewServerConfig(configDir, debugMode, simulationMode),
		startTime:    time.Now(),
	}

	app.displayDevice = device.NewDisplay(app.DisplayParam, app.DecodeParam.SwapBytes, app.SimulationMode)

	// Input sources
	var contactSources []device.ContactSource
	if app.SimulationMode {
		contactSources = append(contactSources, app.displayDevice.SimulationPointer())
	} else {
		if app.InputParam.TouchParam.Enabled {
			app.touchPanelDevice = device.NewTouchPanel(app.InputParam.TouchParam.I2cBus, app.InputParam.TouchParam.Address)
			contactSources = append(contactSources, app.touchPanelDevice)
		}
		if len(app.InputParam.Buttons) > 0 {
			app.buttonsDevice = device.NewButtons(app.InputParam.Buttons)
			contactSources = append(contactSources, app.buttonsDevice)
		}
	}
	if len(contactSources) == 0 {
		logrus.Warnf("No input configured: the first image will stay on screen")
	}
	app.inputDevice = device.NewInput(app.InputParam.MoveThreshold, contactSources...)

	app.media = storage.NewMedia(app.StorageParam.MediaRoot)

	decoder, err := decode.NewDecoder(app.media, decode.Config{
		Scale:     app.DecodeParam.Scale,
		SwapBytes: app.DecodeParam.SwapBytes,
	})
	if err != nil {
		logrus.Fatalf("Unable to create image decoder: %v", err)
	}

	playlist, err := slideshow.NewPlaylist(app.Playlist)
	if err != nil {
		logrus.Fatalf("Unable to create playlist: %v", err)
	}

	_, transitionColor, _, _ := app.DisplayParam.Colors()
	app.slideshowController = slideshow.NewController(
		playlist,
		decoder,
		slideshow.NewFrameSink(app.displayDevice),
		slideshow.NewInputGate(app.inputDevice, app.PollInterval()),
		app.displayDevice,
		transitionColor,
	)

	logrus.Debugln("Server created")

	return app
}

func (s *ServerApp) Start() {
	logrus.Printf("Starting vekislide server ...")

	logrus.Printf("Starting devices ...")

	// Start display device
	s.displayDevice.Start()

	// Display startup screen
	s.displayDevice.ShowImage(images.IntroImage)
	time.Sleep(2 * time.Second)
	bootColor, _, _, _ := s.DisplayParam.Colors()
	s.displayDevice.Fill(bootColor)

	// Start input devices
	if s.touchPanelDevice != nil {
		s.touchPanelDevice.Start()
	}
	if s.buttonsDevice != nil {
		s.buttonsDevice.Start()
	}

	// Wait for the removable media
	s.media.WaitMounted(s.MountWait())

	logrus.Debugf("Devices ready in %v", time.Since(s.startTime))

	// Start slideshow
	go s.slideshowController.Run()
}

func (s *ServerApp) Stop() {
	logrus.Printf("Stopping vekislide server ...")

	// Stop input devices
	if s.buttonsDevice != nil {
		s.buttonsDevice.Stop()
	}
	if s.touchPanelDevice != nil {
		s.touchPanelDevice.Stop()
	}

	// Stop display device
	s.displayDevice.Fill(color.Black)
	s.displayDevice.Stop()

	logrus.Printf("Server stopped")

	os.Exit(0)
}
