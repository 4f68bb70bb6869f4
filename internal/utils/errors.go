package util

import "errors"

var (
	ErrInvalidPoolSize   = errors.New("invalid pool size")
	ErrInvalidReplacerK  = errors.New("invalid replacer k")
	ErrFrameOutOfBounds  = errors.New("frame id out of bounds")
	ErrNonEvictableFrame = errors.New("remove called on a non-evictable frame")
	ErrChecksumMismatch  = errors.New("checksum mismatch")
	ErrPageOutOfBounds   = errors.New("page offset out of bounds")
	ErrDiskManagerNil    = errors.New("disk manager is nil")
)
