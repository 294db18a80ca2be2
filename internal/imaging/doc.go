// Package imaging supplies the image-side collaborators of the Hough line
// detector: decoding and caching input images, turning them into binary edge
// masks, converting masks back into images, encoding PNG payloads, and
// plotting the Hough accumulator as a heat map.
//
// All operations use a coordinate system where (0,0) is the top-left pixel,
// X increases rightward, and Y increases downward. Images with a non-zero
// bounds origin are treated as if they were anchored at (0,0).
//
// # Edge Detection
//
// EdgeDetector is the seam between an image and the line detector. Two
// implementations exist:
//
//   - CannyDetector: pure Go Canny (grayscale, optional Gaussian pre-blur,
//     Sobel gradients, non-maximum suppression, hysteresis). Always available.
//   - OpenCVDetector: cv::Canny through gocv. Only functional when the binary
//     is built with -tags gocv; otherwise Detect returns ErrOpenCVUnavailable.
//
// Both return a *hough.EdgeMask with the same dimensions as the input.
// EdgeSettings picks one of them by name ("canny" or "opencv") and
// validates its thresholds.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Detectors hold only
// configuration and can be shared between goroutines.
//
// # Performance Considerations
//
// For repeated operations on the same image, use ImageCache to avoid redundant
// disk reads. NewImageCache keeps at most DefaultCacheSize decoded images and
// drops the oldest beyond that; NewBoundedImageCache picks another limit.
package imaging
