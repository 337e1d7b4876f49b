package model

import "time"

// Folder 文件夹，ParentID 为空表示顶层
type Folder struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	ParentID  string    `json:"parentId,omitempty" yaml:"parent_id,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updated_at"`
}

// Workspace 整个工作区，按整体读写
type Workspace struct {
	Folders   []Folder  `json:"folders" yaml:"folders"`
	Sessions  []Session `json:"sessions" yaml:"sessions"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updated_at"`
}

// NewWorkspace 空工作区，切片非 nil，序列化为 []
func NewWorkspace() *Workspace {
	return &Workspace{Folders: []Folder{}, Sessions: []Session{}}
}

func (w *Workspace) FindFolder(id string) *Folder {
	for i := range w.Folders {
		if w.Folders[i].ID == id {
			return &w.Folders[i]
		}
	}
	return nil
}

func (w *Workspace) FindSession(id string) *Session {
	for i := range w.Sessions {
		if w.Sessions[i].ID == id {
			return &w.Sessions[i]
		}
	}
	return nil
}

// IsAncestor 判断 ancestorID 是否在 folderID 的父链上（含自身）
func (w *Workspace) IsAncestor(ancestorID, folderID string) bool {
	seen := make(map[string]bool)
	for id := folderID; id != ""; {
		if id == ancestorID {
			return true
		}
		if seen[id] {
			return false
		}
		seen[id] = true
		f := w.FindFolder(id)
		if f == nil {
			return false
		}
		id = f.ParentID
	}
	return false
}

// Clone 深拷贝，存储层用它隔离调用方的修改
func (w *Workspace) Clone() *Workspace {
	if w == nil {
		return NewWorkspace()
	}
	out := &Workspace{
		Folders:   append([]Folder{}, w.Folders...),
		Sessions:  make([]Session, len(w.Sessions)),
		UpdatedAt: w.UpdatedAt,
	}
	for i, s := range w.Sessions {
		out.Sessions[i] = s.Clone()
	}
	return out
}

// Normalize 修正反序列化后为 nil 的切片
func (w *Workspace) Normalize() {
	if w.Folders == nil {
		w.Folders = []Folder{}
	}
	if w.Sessions == nil {
		w.Sessions = []Session{}
	}
	for i := range w.Sessions {
		w.Sessions[i].normalize()
	}
}
