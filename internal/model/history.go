package model

import (
	"errors"
	"time"
)

// MaxCheckpoints 每个会话保留的检查点上限，超出时丢弃最旧的
const MaxCheckpoints = 50

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Checkpoint 一次手动或自动保存
type Checkpoint struct {
	ID        string    `json:"id" yaml:"id"`
	Label     string    `json:"label" yaml:"label"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
	Snapshot  Snapshot  `json:"snapshot" yaml:"snapshot"`
}

// History 线性历史；Cursor 指向当前检查点，没有检查点时为 -1
type History struct {
	Checkpoints []Checkpoint `json:"checkpoints" yaml:"checkpoints"`
	Cursor      int          `json:"cursor" yaml:"cursor"`
}

// Push 丢弃 redo 分支后追加
func (h *History) Push(cp Checkpoint) {
	h.normalize()
	h.Checkpoints = append(h.Checkpoints[:h.Cursor+1], cp)
	if over := len(h.Checkpoints) - MaxCheckpoints; over > 0 {
		h.Checkpoints = append([]Checkpoint{}, h.Checkpoints[over:]...)
	}
	h.Cursor = len(h.Checkpoints) - 1
}

// Undo 回到上一个检查点并返回它
func (h *History) Undo() (Checkpoint, error) {
	h.normalize()
	if h.Cursor <= 0 {
		return Checkpoint{}, ErrNothingToUndo
	}
	h.Cursor--
	return h.Checkpoints[h.Cursor], nil
}

// Redo 前进到下一个检查点并返回它
func (h *History) Redo() (Checkpoint, error) {
	h.normalize()
	if h.Cursor >= len(h.Checkpoints)-1 {
		return Checkpoint{}, ErrNothingToRedo
	}
	h.Cursor++
	return h.Checkpoints[h.Cursor], nil
}

func (h *History) CanUndo() bool { return h.Cursor > 0 }

func (h *History) CanRedo() bool { return h.Cursor < len(h.Checkpoints)-1 }

func (h History) clone() History {
	return History{Checkpoints: append([]Checkpoint{}, h.Checkpoints...), Cursor: h.Cursor}
}

// normalize 修正零值和越界的游标
func (h *History) normalize() {
	if h.Checkpoints == nil {
		h.Checkpoints = []Checkpoint{}
	}
	if len(h.Checkpoints) == 0 {
		h.Cursor = -1
		return
	}
	if h.Cursor < 0 || h.Cursor >= len(h.Checkpoints) {
		h.Cursor = len(h.Checkpoints) - 1
	}
}
