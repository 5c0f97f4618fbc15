package stackpool

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"

	gitbinary "github.com/go-git/go-git/v6/utils/binary"
)

// growCapacityNumerator and growCapacityDenominator define the 3/2 growth
// headroom applied when rebuilding the arena on Boot.
const (
	growCapacityNumerator   = 3
	growCapacityDenominator = 2
)

// hibernatedPool holds the compressed columns of a parked arena.
type hibernatedPool struct {
	values   []byte
	links    []byte
	nodeLen  int
	freeLen  int
	freeHead Index
}

// Hibernate deinterleaves the arena into a value column and a next-link
// column, compresses both with LZ4, and releases the node storage. Values
// are encoded with encoding/binary, so T must be a fixed-size type; any
// other T surfaces as an error and leaves the pool untouched. Pools below
// HibernationThreshold are left untouched as well. A hibernated pool
// panics on any use until Boot.
func (p *Pool[T]) Hibernate() error {
	if p.hibernated != nil {
		panic("stackpool: cannot hibernate an already hibernated pool")
	}

	if len(p.nodes) < p.HibernationThreshold {
		return nil
	}

	nodeLen := len(p.nodes)
	if nodeLen == 0 {
		p.hibernated = &hibernatedPool{freeHead: p.freeHead}
		p.nodes = nil

		return nil
	}

	// Deinterleave to achieve a better compression ratio.
	values := make([]T, nodeLen)
	links := make([]uint32, nodeLen)

	for idx := range p.nodes {
		values[idx] = p.nodes[idx].value
		links[idx] = uint32(p.nodes[idx].next)
	}

	valBuf := new(bytes.Buffer)
	if err := binary.Write(valBuf, binary.LittleEndian, values); err != nil {
		return fmt.Errorf("encode value column: %w", err)
	}

	linkBuf := new(bytes.Buffer)
	if err := binary.Write(linkBuf, binary.LittleEndian, links); err != nil {
		return fmt.Errorf("encode link column: %w", err)
	}

	state := &hibernatedPool{
		nodeLen:  nodeLen,
		freeLen:  p.freeLen,
		freeHead: p.freeHead,
	}

	wg := sync.WaitGroup{}
	wg.Add(2)

	var valErr, linkErr error

	go func() {
		defer wg.Done()

		state.values, valErr = compressColumn(valBuf.Bytes())
	}()

	go func() {
		defer wg.Done()

		state.links, linkErr = compressColumn(linkBuf.Bytes())
	}()

	wg.Wait()

	if valErr != nil {
		return valErr
	}

	if linkErr != nil {
		return linkErr
	}

	p.nodes = nil
	p.hibernated = state

	return nil
}

// Boot performs the opposite of Hibernate: decompresses the columns and
// rebuilds the arena with 3/2 growth headroom. Booting a pool that is not
// hibernated is a no-op.
func (p *Pool[T]) Boot() error {
	if p.hibernated == nil {
		if p.nodes == nil {
			p.nodes = []node[T]{}
		}

		return nil
	}

	state := p.hibernated

	if state.nodeLen == 0 {
		p.nodes = []node[T]{}
		p.freeHead = state.freeHead
		p.freeLen = 0
		p.hibernated = nil

		return nil
	}

	if state.values == nil {
		panic("stackpool: cannot boot a serialized pool")
	}

	values := make([]T, state.nodeLen)
	links := make([]uint32, state.nodeLen)

	wg := sync.WaitGroup{}
	wg.Add(2)

	var valErr, linkErr error

	go func() {
		defer wg.Done()

		raw, err := decompressColumn(state.values)
		if err != nil {
			valErr = err

			return
		}

		valErr = binary.Read(bytes.NewReader(raw), binary.LittleEndian, values)
	}()

	go func() {
		defer wg.Done()

		raw, err := decompressColumn(state.links)
		if err != nil {
			linkErr = err

			return
		}

		linkErr = binary.Read(bytes.NewReader(raw), binary.LittleEndian, links)
	}()

	wg.Wait()

	if valErr != nil {
		return fmt.Errorf("restore value column: %w", valErr)
	}

	if linkErr != nil {
		return fmt.Errorf("restore link column: %w", linkErr)
	}

	capSize := (state.nodeLen * growCapacityNumerator) / growCapacityDenominator
	p.nodes = make([]node[T], state.nodeLen, capSize)

	for idx := range p.nodes {
		p.nodes[idx] = node[T]{value: values[idx], next: Index(links[idx])}
	}

	p.freeHead = state.freeHead
	p.freeLen = state.freeLen
	p.hibernated = nil

	return nil
}

// Serialize writes the hibernated pool to disk. The in-memory compressed
// columns are consumed: a serialized pool must be restored with
// Deserialize before Boot.
func (p *Pool[T]) Serialize(path string) error {
	if p.nodes != nil || p.hibernated == nil {
		panic("stackpool: serialization requires the hibernated state")
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	defer file.Close()

	state := p.hibernated

	if err = gitbinary.WriteVariableWidthInt(file, int64(state.nodeLen)); err != nil {
		return fmt.Errorf("write node len: %w", err)
	}

	if err = gitbinary.WriteVariableWidthInt(file, int64(state.freeLen)); err != nil {
		return fmt.Errorf("write free len: %w", err)
	}

	if err = gitbinary.WriteVariableWidthInt(file, int64(state.freeHead)); err != nil {
		return fmt.Errorf("write free head: %w", err)
	}

	if err = writeColumn(file, state.values); err != nil {
		return fmt.Errorf("write value column: %w", err)
	}

	if err = writeColumn(file, state.links); err != nil {
		return fmt.Errorf("write link column: %w", err)
	}

	state.values = nil
	state.links = nil

	return nil
}

// Deserialize reads a pool previously written by Serialize into the
// hibernated state. The pool itself must be hibernated before the call.
func (p *Pool[T]) Deserialize(path string) error {
	if p.nodes != nil {
		panic("stackpool: deserialization requires the hibernated state")
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}

	defer file.Close()

	state := &hibernatedPool{}

	nodeLen, err := gitbinary.ReadVariableWidthInt(file)
	if err != nil {
		return fmt.Errorf("read node len: %w", err)
	}

	state.nodeLen = int(nodeLen)

	freeLen, err := gitbinary.ReadVariableWidthInt(file)
	if err != nil {
		return fmt.Errorf("read free len: %w", err)
	}

	state.freeLen = int(freeLen)

	freeHead, err := gitbinary.ReadVariableWidthInt(file)
	if err != nil {
		return fmt.Errorf("read free head: %w", err)
	}

	state.freeHead = Index(freeHead)

	if state.values, err = readColumn(file); err != nil {
		return fmt.Errorf("read value column: %w", err)
	}

	if state.links, err = readColumn(file); err != nil {
		return fmt.Errorf("read link column: %w", err)
	}

	p.hibernated = state

	return nil
}

// writeColumn writes a length-prefixed compressed column.
func writeColumn(w io.Writer, data []byte) error {
	if err := gitbinary.WriteVariableWidthInt(w, int64(len(data))); err != nil {
		return fmt.Errorf("write len: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write data: %w", err)
	}

	return nil
}

// readColumn reads a length-prefixed compressed column.
func readColumn(r io.Reader) ([]byte, error) {
	dataLen, err := gitbinary.ReadVariableWidthInt(r)
	if err != nil {
		return nil, fmt.Errorf("read len: %w", err)
	}

	data := make([]byte, int(dataLen))
	if _, err = io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}

	return data, nil
}
