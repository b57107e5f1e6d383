package models

// GroupKind classifies how the members of a duplicate group relate
// on disk.
type GroupKind string

const (
	// GroupHardlinkOnly means every member shares one (device, inode)
	// pair: a single physical file under multiple names.
	GroupHardlinkOnly GroupKind = "hardlink-only"
	// GroupIndependent means every member is a distinct storage object
	// with byte-identical content.
	GroupIndependent GroupKind = "independent"
	// GroupMixed means the group splits into two or more (device, inode)
	// sub-clusters, at least one of which carries multiple names.
	GroupMixed GroupKind = "mixed"
)

// SubCluster is the set of paths sharing one (device, inode) pair
// inside a duplicate group.
type SubCluster struct {
	DevIno DevIno   `json:"dev_ino"`
	Paths  []string `json:"paths"`
}

// DuplicateGroup is a set of files confirmed byte-identical by full
// content hash. Groups are derived from the record set and hold no
// state of their own; they can be recomputed at any time.
type DuplicateGroup struct {
	FullHash    string        `json:"full_hash"`
	Size        int64         `json:"size"` // per-member size, identical across the group
	Members     []*FileRecord `json:"members"`
	Kind        GroupKind     `json:"kind"`
	SubClusters []SubCluster  `json:"sub_clusters"`
	// WastedSpace is the number of bytes reclaimable by removing
	// redundant independent copies. Hard-linked names contribute
	// nothing: (subClusterCount - 1) * Size.
	WastedSpace int64 `json:"wasted_space"`
}

// MemberCount returns the number of paths in the group.
func (g *DuplicateGroup) MemberCount() int {
	return len(g.Members)
}

// Paths returns the member paths in group order.
func (g *DuplicateGroup) Paths() []string {
	paths := make([]string, len(g.Members))
	for i, m := range g.Members {
		paths[i] = m.Path
	}
	return paths
}
