package common

// Key codes shared between the window layer and camera controllers.
// Values match GLFW's key constants so the window callback can forward
// them without translation.
const (
	KeySpace = 32
	KeyA     = 65
	KeyD     = 68
	KeyE     = 69
	KeyQ     = 81
	KeyS     = 83
	KeyW     = 87
	KeyEsc   = 256
	KeyTab   = 258
)
