package imagemeta

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"

	"github.com/fogleman/gg"
	"github.com/nextgig/job-board/internal/format"
	"github.com/nextgig/job-board/internal/job"
	"github.com/pkg/errors"
	"golang.org/x/image/font/basicfont"
)

const (
	Width  = 1200
	Height = 628

	// basicfont is a 7x13 bitmap face, everything is drawn on a scaled
	// canvas so it reads at social card size.
	textScale = 4.0
	margin    = 20.0
)

var (
	backgroundColor = color.RGBA{R: 248, G: 250, B: 252, A: 255}
	accentColor     = color.RGBA{R: 0, G: 123, B: 255, A: 255}
	titleColor      = color.RGBA{R: 15, G: 23, B: 42, A: 255}
	mutedColor      = color.RGBA{R: 71, G: 85, B: 105, A: 255}
)

// GenerateImageForJob renders the Open Graph card of a job as PNG.
func GenerateImageForJob(j job.Job, siteName string) (*bytes.Buffer, error) {
	dc := gg.NewContext(Width, Height)
	dc.SetColor(backgroundColor)
	dc.Clear()
	dc.SetColor(accentColor)
	dc.DrawRectangle(0, 0, Width, 24)
	dc.Fill()

	dc.Scale(textScale, textScale)
	dc.SetFontFace(basicfont.Face7x13)
	maxWidth := Width/textScale - 2*margin

	dc.SetColor(titleColor)
	dc.DrawStringWrapped(format.TruncateText(j.Title, 80), margin, margin+6, 0, 0, maxWidth, 1.4, gg.AlignLeft)

	details := fmt.Sprintf("%s\n%s%s\n%s", j.CompanyName, j.Location, remoteSuffix(j), format.FormatSalary(j.SalaryMin, j.SalaryMax, j.SalaryCurrency))
	dc.SetColor(mutedColor)
	dc.DrawStringWrapped(details, margin, Height/textScale/2, 0, 0, maxWidth, 1.5, gg.AlignLeft)

	dc.SetColor(accentColor)
	dc.DrawStringAnchored(siteName, Width/textScale-margin, Height/textScale-margin, 1, 0)

	w := new(bytes.Buffer)
	if err := png.Encode(w, dc.Image()); err != nil {
		return nil, errors.Wrap(err, "encode meta image")
	}
	return w, nil
}

func remoteSuffix(j job.Job) string {
	if j.IsRemote && j.Location != "Remote" {
		return " (remote)"
	}
	return ""
}
