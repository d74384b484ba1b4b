package models

type RPCBlock struct {
	// where the block came from: a file path or a node block reference
	Source string
	// agnostic blob of data that is the block
	Payload []byte
}

func (b RPCBlock) Empty() bool {
	return len(b.Payload) == 0
}
