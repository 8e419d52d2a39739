package fattree

import (
	"io"

	"github.com/aligator/fattree/checkpoint"
	"github.com/sirupsen/logrus"
)

// Cursor is the position of a directory scan. It is a plain value:
// NextEntry takes the current cursor and returns the advanced one.
type Cursor struct {
	// Cluster is the cluster the next slot is read from.
	Cluster Cluster
	// Offset is the byte offset of the next slot inside Cluster.
	Offset uint32
	// Hops counts the cluster boundaries crossed so far.
	Hops uint32
	// Done is set once the scan ended, successfully or not.
	Done bool
}

// NewCursor starts a scan at the first slot of start.
func NewCursor(start Cluster) Cursor {
	return Cursor{Cluster: start}
}

// readSlot reads the slot at cur and advances cur by one slot.
// When the cluster is exhausted cur moves on to the next cluster of the chain.
// If the chain ends there, io.EOF is returned and the slot just read is dropped.
func (v *Volume) readSlot(cur Cursor) ([]byte, Cursor, error) {
	size := v.geometry.ClusterSize()
	if size < SlotSize {
		return nil, cur, checkpoint.Wrapf(ErrInvalidGeometry, "cluster size %d cannot hold a directory slot", size)
	}

	base, err := v.geometry.ClusterAddress(cur.Cluster)
	if err != nil {
		return nil, cur, checkpoint.Wrap(err, ErrReadDir)
	}

	slot, err := v.src.Read(base+int64(cur.Offset), SlotSize)
	if err != nil {
		return nil, cur, checkpoint.Wrap(err, ErrReadDir)
	}
	cur.Offset += SlotSize

	if cur.Offset >= size {
		next, err := v.NextCluster(cur.Cluster)
		if err != nil {
			return nil, cur, checkpoint.Wrap(err, ErrReadDir)
		}
		if next.IsEndOfChain() {
			return nil, cur, io.EOF
		}

		cur.Hops++
		if limit := v.geometry.ClusterCount(); limit > 0 && cur.Hops > limit {
			loop := checkpoint.Wrapf(ErrChainLoop, "directory crossed %d clusters, volume has %d", cur.Hops, limit)
			return nil, cur, checkpoint.Wrap(loop, ErrReadDir)
		}

		v.log.WithFields(logrus.Fields{
			"from": cur.Cluster,
			"to":   next,
		}).Debug("directory continues in next cluster")

		cur.Cluster = next
		cur.Offset = 0
	}

	return slot, cur, nil
}

// NextEntry reads the entry at cur together with the long name fragments in front of it.
//
// io.EOF is returned when the directory ends: at the end-of-directory marker,
// at a deleted entry (unless Options.SkipDeleted is set) and at the end of the cluster chain.
// Every other error means that the directory could not be read completely.
// Either way the returned cursor is Done and all further calls return io.EOF.
func (v *Volume) NextEntry(cur Cursor) (Entry, Cursor, error) {
	if cur.Done {
		return Entry{}, cur, io.EOF
	}

	var name LongName
	for {
		var slot []byte
		var err error
		slot, cur, err = v.readSlot(cur)
		if err != nil {
			cur.Done = true
			return Entry{}, cur, err
		}

		if v.opts.SkipDeleted && slot[0] == DeletedMarker {
			name.Reset()
			continue
		}

		if IsLongNameSlot(slot) {
			if err := name.Add(slot); err != nil {
				cur.Done = true
				return Entry{}, cur, checkpoint.Wrap(err, ErrReadDir)
			}
			continue
		}

		header, err := DecodeShortEntry(slot)
		if err != nil {
			cur.Done = true
			return Entry{}, cur, checkpoint.Wrap(err, ErrReadDir)
		}

		switch header.Name[0] {
		case EndOfDirectory, DeletedMarker:
			cur.Done = true
			return Entry{}, cur, io.EOF
		}

		return Entry{
			EntryHeader: header,
			LongName:    name.String(),
		}, cur, nil
	}
}

// Dir is a single pass iterator over the entries of one directory.
type Dir struct {
	volume *Volume
	cursor Cursor
}

// Next returns the next entry or io.EOF once the directory has ended.
func (d *Dir) Next() (Entry, error) {
	entry, cursor, err := d.volume.NextEntry(d.cursor)
	d.cursor = cursor
	return entry, err
}

// Cursor is the current position of the iterator.
func (d *Dir) Cursor() Cursor {
	return d.cursor
}

// ReadAll reads all remaining entries.
// The entries read before an error occurred are returned together with it.
func (d *Dir) ReadAll() ([]Entry, error) {
	var entries []Entry
	for {
		entry, err := d.Next()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return entries, err
		}
		entries = append(entries, entry)
	}
}
