package tiff

// Node is one link in the IFD chain built by Tree.
type Node struct {
	IFD  *IFD
	Next *Node
}

// Tree follows the next-IFD chain from root and returns it as a Node
// linked list, capped at MaxIFDChain steps. It is Container.Walk's
// collect-rather-than-visit counterpart, for callers that want the whole
// chain in hand before working with it.
func Tree(c *Container, root uint32) (*Node, error) {
	var head, tail *Node
	err := c.Walk(root, func(offset uint32, ifd *IFD) error {
		n := &Node{IFD: ifd}
		if head == nil {
			head = n
		} else {
			tail.Next = n
		}
		tail = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return head, nil
}

// FollowSubIFDs reads each of the given pointer tags off ifd as a LONG (or
// LONG array) offset and calls ReadIFD on every value found, returning the
// sub-IFDs in the order their pointer tags and array elements were
// encountered. Conventional pointer tags are SubIFD (330), EXIF IFD
// (34665), and Interoperability IFD (40965); MakerNote (37500) is UNDEFINED
// data, not an IFD pointer, and is deliberately not accepted here -- a
// MakerNote buffer must be fetched with Tag.Data and handed to MakeIFD by a
// caller that knows the vendor's rebase convention.
//
// This is structural only: it follows an offset to another IFD and does
// not attempt to interpret what the sub-IFD means.
func FollowSubIFDs(c *Container, ifd *IFD, pointerTags ...uint16) ([]*IFD, error) {
	var out []*IFD
	for _, id := range pointerTags {
		tag, err := ifd.Lookup(id)
		if err == ErrTagNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		if tag.Type() != Long {
			return nil, ErrUnknownType
		}

		n := int(tag.Count())
		buf := make([]byte, 4*n)
		if _, err := tag.Data(buf); err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			offset := native.Uint32(buf[i*4 : i*4+4])
			sub, err := c.ReadIFD(offset)
			if err != nil {
				return nil, err
			}
			out = append(out, sub)
		}
	}
	return out, nil
}
