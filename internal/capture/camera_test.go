package capture

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/coder/quartz"
	"gocv.io/x/gocv"
)

func TestNewCamera(t *testing.T) {
	cam := NewCamera(0, 0, 0)
	if cam == nil {
		t.Fatal("NewCamera returned nil")
	}
	if cam.IsOpen() {
		t.Error("camera should not be open initially")
	}

	dc := cam.(*deviceCamera)
	if dc.width != DefaultWidth || dc.height != DefaultHeight {
		t.Errorf("size = %dx%d, want %dx%d", dc.width, dc.height, DefaultWidth, DefaultHeight)
	}
}

func TestCamera_ReadFrame_NotOpened(t *testing.T) {
	cam := NewCamera(0, 640, 480)

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
}

func TestCamera_Close_NotOpened(t *testing.T) {
	cam := NewCamera(0, 640, 480)

	if err := cam.Close(); err != nil {
		t.Errorf("Close() on not opened camera should return nil, got: %v", err)
	}
}

func TestCamera_OpenClose_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewCamera(0, 640, 480)
	if err := cam.Open(); err != nil {
		t.Skipf("skipping test - camera not available: %v", err)
	}

	mat, err := cam.ReadFrame()
	if err != nil {
		t.Errorf("ReadFrame() failed: %v", err)
	} else {
		mat.Close()
	}

	if err := cam.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
	if cam.IsOpen() {
		t.Error("IsOpen() should return false after Close()")
	}
}

func TestWarmup(t *testing.T) {
	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	t.Run("waits then takes a test frame", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		clock := quartz.NewMock(t)
		cam := NewMockCamera([]*gocv.Mat{&frame}, true)

		done := make(chan error, 1)
		go func() { done <- Warmup(ctx, cam, clock, DefaultWarmup) }()

		// The timer may not exist yet on the first advance; keep stepping.
		var err error
	wait:
		for {
			if cam.Reads() != 0 {
				t.Fatal("test frame taken before the settle time")
			}
			clock.Advance(DefaultWarmup).MustWait(ctx)
			select {
			case err = <-done:
				break wait
			case <-time.After(20 * time.Millisecond):
			}
		}
		if err != nil {
			t.Fatalf("Warmup() error = %v", err)
		}
		if cam.Reads() != 1 {
			t.Errorf("Reads() = %d, want 1", cam.Reads())
		}
		if !cam.IsOpen() {
			t.Error("camera should stay open")
		}
	})

	t.Run("fails and closes when no frame comes back", func(t *testing.T) {
		cam := NewMockCamera(nil, false)

		err := Warmup(context.Background(), cam, quartz.NewReal(), 0)
		if !errors.Is(err, ErrNoFrames) {
			t.Fatalf("Warmup() error = %v, want ErrNoFrames", err)
		}
		if cam.IsOpen() {
			t.Error("camera should be closed after a failed warmup")
		}
	})

	t.Run("open failure is returned", func(t *testing.T) {
		cam := NewMockCamera(nil, false)
		boom := errors.New("no device")
		cam.FailOpen(boom)

		if err := Warmup(context.Background(), cam, quartz.NewReal(), 0); !errors.Is(err, boom) {
			t.Errorf("Warmup() error = %v, want %v", err, boom)
		}
	})
}

func TestJPEGSource_Capture(t *testing.T) {
	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	cam := NewMockCamera([]*gocv.Mat{&frame}, true)
	cam.Open()
	defer cam.Close()

	data, err := NewJPEGSource(cam).Capture(context.Background())
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}
	if len(data) < 2 || data[0] != 0xff || data[1] != 0xd8 {
		t.Fatal("Capture() did not return a JPEG")
	}

	decoded, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		t.Fatalf("IMDecode() error = %v", err)
	}
	defer decoded.Close()
	if got := image.Pt(decoded.Cols(), decoded.Rows()); got != image.Pt(DefaultFrameWidth, DefaultFrameHeight) {
		t.Errorf("decoded size = %v, want 320x240", got)
	}
}

func TestJPEGSource_CameraClosed(t *testing.T) {
	cam := NewMockCamera(nil, false)

	if _, err := NewJPEGSource(cam).Capture(context.Background()); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("Capture() error = %v, want ErrCameraNotOpen", err)
	}
}
