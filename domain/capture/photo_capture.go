package capture

import "github.com/soocke/assetpicker-go/domain/camera"

// photoCapture follows one shot. The hardware calls it on arbitrary goroutines;
// every callback hops onto the capture queue before touching state.
type photoCapture struct {
	session  *photoSession
	settings camera.PhotoSettings
	save     bool
	future   *future[PhotoResult]
	finished chan struct{}

	// queue-owned
	ended       bool
	resolved    camera.ResolvedPhotoSettings
	data        []byte
	err         error
	liveMovie   string
	liveCounted bool
}

func (c *photoCapture) WillBeginCapture(r camera.ResolvedPhotoSettings) {
	c.session.q.Async(func() {
		c.resolved = r
		if !r.LivePhotoMovieDimensions.IsZero() {
			c.liveCounted = true
			c.session.adjustLiveCount(1)
		}
	})
}

func (c *photoCapture) WillCapturePhoto(camera.ResolvedPhotoSettings) {
	settings := c.settings
	c.session.ui.Async(func() { c.session.events.willCapture(settings) })
}

func (c *photoCapture) DidFinishProcessingPhoto(data []byte, err error) {
	c.session.q.Async(func() {
		if err != nil {
			c.err = err
			return
		}
		c.data = data
	})
}

func (c *photoCapture) DidFinishRecordingLivePhotoMovie(string) {
	c.session.q.Async(func() {
		c.liveCounted = false
		c.session.adjustLiveCount(-1)
	})
}

func (c *photoCapture) DidFinishProcessingLivePhotoMovie(path string, err error) {
	c.session.q.Async(func() {
		if err != nil {
			c.session.logger.Warn("live photo movie failed, keeping still photo", "id", c.settings.ID, "error", err)
			return
		}
		c.liveMovie = path
	})
}

func (c *photoCapture) DidFinishCapture(_ camera.ResolvedPhotoSettings, err error) {
	c.session.q.Async(func() { c.session.finish(c, err) })
}
