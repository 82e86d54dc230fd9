package program

import (
	"fmt"
	"io"
	"os"

	"github.com/colorfulnotion/um/bitpack"
	"github.com/colorfulnotion/um/common"
	"github.com/colorfulnotion/um/log"
	"github.com/colorfulnotion/um/umerrors"
)

// WordSize is the number of bytes per instruction word in a program file.
const WordSize = 4

// Program is a decoded program image ready to become segment zero.
type Program struct {
	Words []uint32
	Hash  common.Hash // blake2b-256 of the big-endian image
	Name  string
}

// New wraps already-decoded words.
func New(name string, words []uint32) *Program {
	return &Program{
		Words: words,
		Hash:  common.Blake2Hash(common.WordsToBytes(words)),
		Name:  name,
	}
}

// Assemble turns a list of instructions into a program.
func Assemble(name string, insts ...Instruction) *Program {
	words := make([]uint32, len(insts))
	for i, inst := range insts {
		words[i] = uint32(inst)
	}
	return New(name, words)
}

// Bytes returns the program file image.
func (p *Program) Bytes() []byte {
	return common.WordsToBytes(p.Words)
}

// Decode packs each group of four bytes into a word, most significant byte first.
func Decode(data []byte) ([]uint32, error) {
	if len(data)%WordSize != 0 {
		return nil, fmt.Errorf("%d bytes leaves a %d byte partial word: %w", len(data), len(data)%WordSize, umerrors.ErrLTruncatedProgram)
	}
	words := make([]uint32, len(data)/WordSize)
	for i := range words {
		var word uint32
		for j, lsb := 0, uint(24); j < WordSize; j, lsb = j+1, lsb-8 {
			// a byte always fits an 8-bit field
			word, _ = bitpack.NewU(word, 8, lsb, uint32(data[i*WordSize+j]))
		}
		words[i] = word
	}
	return words, nil
}

// Read decodes a program from r.
func Read(name string, r io.Reader) (*Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", name, err, umerrors.ErrLRead)
	}
	words, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	p := New(name, words)
	log.Debug(log.LoaderMonitoring, "program decoded", "name", name, "words", len(words), "hash", p.Hash.String_short())
	return p, nil
}

// Load reads the program file at path.
func Load(path string) (*Program, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, umerrors.ErrLOpen)
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%s is a directory: %w", path, umerrors.ErrLOpen)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, umerrors.ErrLOpen)
	}
	defer f.Close()

	p, err := Read(path, f)
	if err != nil {
		return nil, err
	}
	if int64(len(p.Words))*WordSize != st.Size() {
		return nil, fmt.Errorf("%s: read %d words, file is %d bytes: %w", path, len(p.Words), st.Size(), umerrors.ErrLRead)
	}
	log.Info(log.LoaderMonitoring, "program loaded", "path", path, "words", len(p.Words), "hash", p.Hash)
	return p, nil
}
