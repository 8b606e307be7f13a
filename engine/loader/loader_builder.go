package loader

// LoaderBuilderOption is a functional option for configuring a TextureLoader via NewTextureLoader.
type LoaderBuilderOption func(*TextureLoader)

// WithBaseDir sets the directory relative texture paths resolve against.
//
// Parameters:
//   - dir: the asset directory
//
// Returns:
//   - LoaderBuilderOption: a function that applies the base directory option to a loader
func WithBaseDir(dir string) LoaderBuilderOption {
	return func(l *TextureLoader) {
		l.baseDir = dir
	}
}

// WithWorkers sets the maximum number of concurrent decodes. Values below 1 are ignored.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker count option to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *TextureLoader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithMaxSize caps the longest edge of decoded images, LDR and HDR alike; larger images are
// scaled down. Zero leaves images at their native size.
//
// Parameters:
//   - px: the longest allowed edge in pixels
//
// Returns:
//   - LoaderBuilderOption: a function that applies the max size option to a loader
func WithMaxSize(px int) LoaderBuilderOption {
	return func(l *TextureLoader) {
		l.images.maxSize = max(0, px)
		l.hdr.maxSize = max(0, px)
	}
}

// WithExposure scales HDR values before tone mapping. Non-positive values are ignored.
func WithExposure(exposure float64) LoaderBuilderOption {
	return func(l *TextureLoader) {
		if exposure > 0 {
			l.hdr.exposure = exposure
		}
	}
}

// WithVerbose logs every successful load.
func WithVerbose(verbose bool) LoaderBuilderOption {
	return func(l *TextureLoader) {
		l.verbose = verbose
	}
}
