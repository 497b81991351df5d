package command

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// replayMagic starts every replay file, followed by the int64 placement seed
var replayMagic = [4]byte{'T', 'C', 'R', '1'}

// ErrBadReplay reports a file that is not a replay
var ErrBadReplay = errors.New("not a replay file")

// Replay records and plays back commands
type Replay struct {
	Seed     int64
	Commands []Command // filled when loading; recording streams to the file
	file     *os.File
	writer   *bufio.Writer
}

// NewReplayRecorder creates a replay file for a session seeded with seed
func NewReplayRecorder(path string, seed int64) (*Replay, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create replay: %w", err)
	}
	r := &Replay{
		Seed:   seed,
		file:   f,
		writer: bufio.NewWriter(f),
	}
	if err := writeHeader(r.writer, seed); err != nil {
		f.Close()
		return nil, fmt.Errorf("write replay header: %w", err)
	}
	return r, nil
}

func writeHeader(w io.Writer, seed int64) error {
	if _, err := w.Write(replayMagic[:]); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, seed)
}

// Record writes a command to the replay file. Replays without a file keep the
// command in memory instead.
func (r *Replay) Record(cmd Command) error {
	if r.writer == nil {
		r.Commands = append(r.Commands, cmd)
		return nil
	}
	return cmd.Encode(r.writer)
}

// Close flushes and closes the replay file
func (r *Replay) Close() error {
	var err error
	if r.writer != nil {
		err = r.writer.Flush()
	}
	if r.file != nil {
		err = errors.Join(err, r.file.Close())
	}
	return err
}

// LoadReplay loads a replay file
func LoadReplay(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay: %w", err)
	}
	defer f.Close()
	return ReadReplay(f)
}

// ReadReplay decodes the header and then commands until r is exhausted. A
// truncated final record is an error.
func ReadReplay(r io.Reader) (*Replay, error) {
	reader := bufio.NewReader(r)
	var magic [4]byte
	if _, err := io.ReadFull(reader, magic[:]); err != nil || magic != replayMagic {
		return nil, ErrBadReplay
	}
	replay := &Replay{}
	if err := binary.Read(reader, binary.LittleEndian, &replay.Seed); err != nil {
		return nil, fmt.Errorf("replay seed: %w", unexpected(err))
	}
	for {
		var cmd Command
		err := cmd.Decode(reader)
		if err == io.EOF {
			return replay, nil
		}
		if err != nil {
			return replay, fmt.Errorf("replay record %d: %w", len(replay.Commands), err)
		}
		replay.Commands = append(replay.Commands, cmd)
	}
}

// CommandsForTick returns all commands at a given tick during playback
func (r *Replay) CommandsForTick(tick uint64) []Command {
	var result []Command
	for _, c := range r.Commands {
		if c.Tick == tick {
			result = append(result, c)
		}
	}
	return result
}

// LastTick returns the tick of the final recorded command
func (r *Replay) LastTick() uint64 {
	var last uint64
	for _, c := range r.Commands {
		if c.Tick > last {
			last = c.Tick
		}
	}
	return last
}
