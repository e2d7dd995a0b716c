package device

import (
	"gioui.org/app"
	"gioui.org/io/pointer"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"github.com/sirupsen/logrus"
	"image"
)

type simulationWindow = app.Window

func (d *Display) startSimulation() {
	w, h := float32(d.Width()), float32(d.Height())
	d.simulationWindow = app.NewWindow(app.Title("vekislide"), app.Size(unit.Px(2*w), unit.Px(2*h)), app.MinSize(unit.Px(w), unit.Px(h)))
	go func() {
		if err := d.gioloop(); err != nil {
			logrus.Fatal(err)
		}
	}()
	go app.Main()
}

func (d *Display) invalidateSimulationWindow() {
	if d.simulationWindow != nil {
		d.simulationWindow.Invalidate()
	}
}

func (d *Display) gioloop() error {
	var ops op.Ops
	for {
		e := <-d.simulationWindow.Events()
		switch e := e.(type) {
		case system.DestroyEvent:
			return e.Err
		case system.FrameEvent:
			gtx := layout.NewContext(&ops, e)

			// The surface is drawn from the top left corner, scaled to fit the window
			scale := float32(e.Size.X) / float32(d.Width())
			if s := float32(e.Size.Y) / float32(d.Height()); s < scale {
				scale = s
			}
			for _, ev := range gtx.Events(d.simulationPointer) {
				pe, ok := ev.(pointer.Event)
				if !ok {
					continue
				}
				position := image.Pt(int(pe.Position.X/scale), int(pe.Position.Y/scale))
				switch pe.Type {
				case pointer.Press, pointer.Drag:
					d.simulationPointer.set(true, position)
				case pointer.Release, pointer.Cancel:
					d.simulationPointer.set(false, position)
				}
			}
			pointer.InputOp{Tag: d.simulationPointer, Types: pointer.Press | pointer.Drag | pointer.Release}.Add(gtx.Ops)

			img := widget.Image{Src: paint.NewImageOp(d.Snapshot()), Fit: widget.Contain}
			img.Layout(gtx)
			e.Frame(gtx.Ops)
		}
	}
}
