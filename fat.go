package fattree

import (
	"encoding/binary"

	"github.com/aligator/fattree/checkpoint"
	"github.com/sirupsen/logrus"
)

// DecodeFATEntry decodes a raw little endian FAT entry and strips the reserved bits.
func DecodeFATEntry(raw [4]byte) Cluster {
	return Cluster(binary.LittleEndian.Uint32(raw[:])) & ClusterMask
}

// NextCluster looks up the cluster which follows current in its chain.
// The FAT is read on every call, nothing is cached.
//
// The result is either a valid data cluster or satisfies IsEndOfChain.
// Free and reserved entries are reported as ErrInvalidCluster, bad clusters as ErrBadCluster.
func (v *Volume) NextCluster(current Cluster) (Cluster, error) {
	offset, err := v.geometry.FATEntryOffset(current, v.opts.FATCopy)
	if err != nil {
		return 0, checkpoint.From(err)
	}

	data, err := v.src.Read(offset, 4)
	if err != nil {
		return 0, checkpoint.Wrap(err, ErrReadFAT)
	}

	var raw [4]byte
	copy(raw[:], data)
	next := DecodeFATEntry(raw)

	v.log.WithFields(logrus.Fields{
		"cluster": current,
		"next":    next,
	}).Debug("followed FAT entry")

	switch {
	case next.IsEndOfChain():
		return next, nil
	case next == BadCluster:
		return 0, checkpoint.Wrapf(ErrBadCluster, "cluster %d is followed by a bad cluster", uint32(current))
	case !next.Valid():
		return 0, checkpoint.Wrapf(ErrInvalidCluster, "cluster %d is followed by reserved value %d", uint32(current), uint32(next))
	}

	return next, nil
}

// Chain returns all clusters of the chain starting at start, start included.
// It stops with ErrChainLoop if the chain is longer than the volume has clusters.
func (v *Volume) Chain(start Cluster) ([]Cluster, error) {
	if !start.Valid() {
		return nil, checkpoint.Wrapf(ErrInvalidCluster, "chain cannot start at cluster %d", uint32(start))
	}

	limit := v.geometry.ClusterCount()
	chain := []Cluster{start}
	for current := start; ; {
		next, err := v.NextCluster(current)
		if err != nil {
			return chain, err
		}
		if next.IsEndOfChain() {
			return chain, nil
		}
		if limit > 0 && uint32(len(chain)) >= limit {
			return chain, checkpoint.Wrapf(ErrChainLoop, "chain from %d exceeds %d clusters", uint32(start), limit)
		}
		chain = append(chain, next)
		current = next
	}
}
