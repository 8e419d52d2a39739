package fixture

import (
	"time"
)

// Build creates an image with the given root directory content.
func Build(layout Layout, root []Node) ([]byte, error) {
	im := New(layout)
	if err := im.AddTree(root); err != nil {
		return nil, err
	}
	return im.Bytes()
}

// AddTree allocates and writes the root directory and everything below it.
// The root directory becomes the first allocated cluster.
func (im *Image) AddTree(root []Node) error {
	var head [][]byte
	if im.layout.Label != "" {
		head = append(head, ShortSlot(pad11(im.layout.Label, ""), attrVolumeID, 0, 0, time.Time{}))
	}

	first, err := im.addDir(root, head, 0, true)
	if err != nil {
		return err
	}
	im.root = first
	return nil
}

func (im *Image) addDir(children []Node, head [][]byte, parent uint32, isRoot bool) (uint32, error) {
	count := len(head) + 1 // the zeroed end-of-directory slot
	if !isRoot {
		count += 2
	}
	children = append([]Node(nil), children...)
	namer := NewShortNamer()
	aliases := make([]int, len(children))
	for i := range children {
		if children[i].Content != nil {
			children[i].Size = uint32(len(children[i].Content))
		}
		aliases[i] = namer.Alias(children[i].Name)
		count += len(EntrySlots(children[i], 0, aliases[i]))
	}

	perCluster := im.ClusterSize() / slotSize
	chain, err := im.Alloc((count + perCluster - 1) / perCluster)
	if err != nil {
		return 0, err
	}
	self := chain[0]

	slots := head
	if !isRoot {
		slots = append(slots,
			ShortSlot(ShortName(".", ""), attrDirectory, self, 0, time.Time{}),
			ShortSlot(ShortName("..", ""), attrDirectory, parent, 0, time.Time{}),
		)
	}

	// ".." of a directory directly below the root points to cluster 0.
	childParent := self
	if isRoot {
		childParent = 0
	}

	for i, child := range children {
		var cluster uint32
		switch {
		case child.Dir:
			cluster, err = im.addDir(child.Children, nil, childParent, false)
			if err != nil {
				return 0, err
			}
		case child.Size > 0:
			clusterSize := uint32(im.ClusterSize())
			data, err := im.Alloc(int((child.Size + clusterSize - 1) / clusterSize))
			if err != nil {
				return 0, err
			}
			if err := im.WriteData(data, child.Content); err != nil {
				return 0, err
			}
			cluster = data[0]
		}
		slots = append(slots, EntrySlots(child, cluster, aliases[i])...)
	}

	return self, im.WriteSlots(chain, slots)
}
