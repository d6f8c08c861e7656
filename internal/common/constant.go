package common

const (
	// JarExtension is the only file extension accepted for uploads.
	JarExtension = ".jar"

	// JarContentType is served for artifact downloads.
	JarContentType = "application/java-archive"
)
