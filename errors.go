package fattree

import "errors"

// These errors may occur while decoding a volume.
// They are wrapped by checkpoints, so compare them with errors.Is.
var (
	ErrOpenImage       = errors.New("could not open the image")
	ErrShortRead       = errors.New("could not read enough bytes from the image")
	ErrShortBootSector = errors.New("boot sector is shorter than 512 bytes")
	ErrShortSlot       = errors.New("directory slot is shorter than 32 bytes")
	ErrInvalidCluster  = errors.New("cluster index is reserved")
	ErrBadCluster      = errors.New("cluster is marked bad")
	ErrInvalidGeometry = errors.New("volume geometry cannot be used for this operation")
	ErrInvalidOrdinal  = errors.New("long name fragment has ordinal 0")
	ErrChainLoop       = errors.New("cluster chain is longer than the volume")
	ErrReadDir         = errors.New("could not read the directory")
	ErrReadFAT         = errors.New("could not read the FAT")
	ErrReadFile        = errors.New("could not read file completely")
	ErrSeekFile        = errors.New("could not seek inside of the file")
)
