package managers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/codenest/codenest/internal/blob"
	"github.com/codenest/codenest/internal/domain"
)

// The fakes mirror the mongo repositories: uniqueness is enforced on insert
// under a lock, exactly like the partial unique indexes, so racing creates
// have one winner.

type memWorkspaceRepo struct {
	mu         sync.Mutex
	workspaces map[string]*domain.Workspace
}

func newMemWorkspaceRepo() *memWorkspaceRepo {
	return &memWorkspaceRepo{workspaces: make(map[string]*domain.Workspace)}
}

func (r *memWorkspaceRepo) Insert(_ context.Context, workspace *domain.Workspace) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.workspaces[workspace.ID]; ok {
		return fmt.Errorf("%w: workspace %s", domain.ErrConflict, workspace.ID)
	}

	now := time.Now()
	workspace.CreatedAt = now
	workspace.UpdatedAt = now

	clone := *workspace
	r.workspaces[workspace.ID] = &clone

	return nil
}

func (r *memWorkspaceRepo) GetLive(_ context.Context, id string) (*domain.Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	workspace, ok := r.workspaces[id]
	if !ok || workspace.IsDeleted {
		return nil, fmt.Errorf("%w: workspace", domain.ErrNotFound)
	}

	clone := *workspace

	return &clone, nil
}

func (r *memWorkspaceRepo) Get(_ context.Context, id string) (*domain.Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	workspace, ok := r.workspaces[id]
	if !ok {
		return nil, fmt.Errorf("%w: workspace", domain.ErrNotFound)
	}

	clone := *workspace

	return &clone, nil
}

func (r *memWorkspaceRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []domain.Workspace

	for _, workspace := range r.workspaces {
		if workspace.OwnerID == ownerID && !workspace.IsDeleted {
			result = append(result, *workspace)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})

	return result, nil
}

func (r *memWorkspaceRepo) SetDeleted(_ context.Context, id string, deleted bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	workspace, ok := r.workspaces[id]
	if !ok {
		return fmt.Errorf("%w: workspace %s", domain.ErrNotFound, id)
	}

	workspace.IsDeleted = deleted
	workspace.UpdatedAt = time.Now()

	return nil
}

type memFolderRepo struct {
	mu      sync.Mutex
	folders map[string]*domain.Folder
}

func newMemFolderRepo() *memFolderRepo {
	return &memFolderRepo{folders: make(map[string]*domain.Folder)}
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return *a == *b
}

func (r *memFolderRepo) Insert(_ context.Context, folder *domain.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.folders {
		if existing.IsDeleted {
			continue
		}

		if existing.WorkspaceID == folder.WorkspaceID &&
			sameParent(existing.ParentFolderID, folder.ParentFolderID) &&
			existing.Name == folder.Name {
			return fmt.Errorf("%w: folder %s", domain.ErrConflict, folder.Name)
		}
	}

	now := time.Now()
	folder.CreatedAt = now
	folder.UpdatedAt = now

	clone := *folder
	r.folders[folder.ID] = &clone

	return nil
}

func (r *memFolderRepo) GetLive(_ context.Context, workspaceID, id string) (*domain.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	folder, ok := r.folders[id]
	if !ok || folder.IsDeleted || folder.WorkspaceID != workspaceID {
		return nil, fmt.Errorf("%w: folder", domain.ErrNotFound)
	}

	clone := *folder

	return &clone, nil
}

func (r *memFolderRepo) Get(_ context.Context, id string) (*domain.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	folder, ok := r.folders[id]
	if !ok {
		return nil, fmt.Errorf("%w: folder", domain.ErrNotFound)
	}

	clone := *folder

	return &clone, nil
}

func (r *memFolderRepo) ListChildren(_ context.Context, workspaceID string, parentFolderID *string) ([]domain.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []domain.Folder

	for _, folder := range r.folders {
		if folder.WorkspaceID == workspaceID && !folder.IsDeleted && sameParent(folder.ParentFolderID, parentFolderID) {
			result = append(result, *folder)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result, nil
}

func (r *memFolderRepo) ListByPathPrefix(_ context.Context, workspaceID, prefix string) ([]domain.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []domain.Folder

	for _, folder := range r.folders {
		if folder.WorkspaceID == workspaceID && !folder.IsDeleted && strings.HasPrefix(folder.Path, prefix+"/") {
			result = append(result, *folder)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Path < result[j].Path
	})

	return result, nil
}

func (r *memFolderRepo) ListByWorkspace(_ context.Context, workspaceID string) ([]domain.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []domain.Folder

	for _, folder := range r.folders {
		if folder.WorkspaceID == workspaceID && !folder.IsDeleted {
			result = append(result, *folder)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Path < result[j].Path
	})

	return result, nil
}

func (r *memFolderRepo) UpdatePath(_ context.Context, id, name, path string, actorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	folder, ok := r.folders[id]
	if !ok {
		return fmt.Errorf("%w: folder %s", domain.ErrNotFound, id)
	}

	folder.Name = name
	folder.Path = path
	folder.LastModifiedBy = actorID
	folder.UpdatedAt = time.Now()

	return nil
}

func (r *memFolderRepo) Relocate(_ context.Context, id, name, path string, parentFolderID *string, actorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	folder, ok := r.folders[id]
	if !ok {
		return fmt.Errorf("%w: folder %s", domain.ErrNotFound, id)
	}

	for _, existing := range r.folders {
		if existing.ID == id || existing.IsDeleted {
			continue
		}

		if existing.WorkspaceID == folder.WorkspaceID &&
			sameParent(existing.ParentFolderID, parentFolderID) &&
			existing.Name == name {
			return fmt.Errorf("%w: folder %s", domain.ErrConflict, name)
		}
	}

	folder.Name = name
	folder.Path = path
	folder.ParentFolderID = parentFolderID
	folder.LastModifiedBy = actorID
	folder.UpdatedAt = time.Now()

	return nil
}

func (r *memFolderRepo) SetDeleted(_ context.Context, id string, deleted bool, actorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	folder, ok := r.folders[id]
	if !ok {
		return fmt.Errorf("%w: folder %s", domain.ErrNotFound, id)
	}

	// Un-deleting re-enters the live uniqueness constraint, same as the
	// partial unique index.
	if !deleted {
		for _, existing := range r.folders {
			if existing.ID == id || existing.IsDeleted {
				continue
			}

			if existing.WorkspaceID == folder.WorkspaceID &&
				sameParent(existing.ParentFolderID, folder.ParentFolderID) &&
				existing.Name == folder.Name {
				return fmt.Errorf("%w: folder %s", domain.ErrConflict, id)
			}
		}
	}

	folder.IsDeleted = deleted
	folder.LastModifiedBy = actorID
	folder.UpdatedAt = time.Now()

	return nil
}

func (r *memFolderRepo) SetDeletedByPathPrefix(_ context.Context, workspaceID, prefix string, deleted bool, actorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, folder := range r.folders {
		if folder.WorkspaceID == workspaceID && strings.HasPrefix(folder.Path, prefix+"/") {
			folder.IsDeleted = deleted
			folder.LastModifiedBy = actorID
		}
	}

	return nil
}

func (r *memFolderRepo) SetDeletedByWorkspace(_ context.Context, workspaceID string, deleted bool, actorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, folder := range r.folders {
		if folder.WorkspaceID == workspaceID {
			folder.IsDeleted = deleted
			folder.LastModifiedBy = actorID
		}
	}

	return nil
}

type memFileRepo struct {
	mu    sync.Mutex
	files map[string]*domain.File

	failNextInsert bool
}

func newMemFileRepo() *memFileRepo {
	return &memFileRepo{files: make(map[string]*domain.File)}
}

func (r *memFileRepo) Insert(_ context.Context, file *domain.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failNextInsert {
		r.failNextInsert = false

		return errors.New("metadata store unavailable")
	}

	for _, existing := range r.files {
		if existing.IsDeleted {
			continue
		}

		if existing.FolderID == file.FolderID && existing.Name == file.Name && existing.Extension == file.Extension {
			return fmt.Errorf("%w: file %s", domain.ErrConflict, file.FullName())
		}

		if existing.BlobKey == file.BlobKey {
			return fmt.Errorf("%w: blob key %s", domain.ErrConflict, file.BlobKey)
		}
	}

	now := time.Now()
	file.CreatedAt = now
	file.UpdatedAt = now

	clone := *file
	r.files[file.ID] = &clone

	return nil
}

func (r *memFileRepo) GetLive(_ context.Context, id string) (*domain.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, ok := r.files[id]
	if !ok || file.IsDeleted {
		return nil, fmt.Errorf("%w: file", domain.ErrNotFound)
	}

	clone := *file

	return &clone, nil
}

func (r *memFileRepo) Get(_ context.Context, id string) (*domain.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, ok := r.files[id]
	if !ok {
		return nil, fmt.Errorf("%w: file", domain.ErrNotFound)
	}

	clone := *file

	return &clone, nil
}

func (r *memFileRepo) ListByFolder(_ context.Context, folderID string) ([]domain.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []domain.File

	for _, file := range r.files {
		if file.FolderID == folderID && !file.IsDeleted {
			result = append(result, *file)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result, nil
}

func (r *memFileRepo) ListByPathPrefix(_ context.Context, workspaceID, prefix string) ([]domain.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []domain.File

	for _, file := range r.files {
		if file.WorkspaceID == workspaceID && !file.IsDeleted && strings.HasPrefix(file.Path, prefix+"/") {
			result = append(result, *file)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Path < result[j].Path
	})

	return result, nil
}

func (r *memFileRepo) ListByWorkspace(_ context.Context, workspaceID string) ([]domain.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []domain.File

	for _, file := range r.files {
		if file.WorkspaceID == workspaceID && !file.IsDeleted {
			result = append(result, *file)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Path < result[j].Path
	})

	return result, nil
}

func (r *memFileRepo) UpdateContent(_ context.Context, id string, update domain.FileContentUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, ok := r.files[id]
	if !ok || file.IsDeleted {
		return fmt.Errorf("%w: file %s", domain.ErrNotFound, id)
	}

	file.Size = update.Size
	file.Checksum = update.Checksum
	file.Metadata.LineCount = update.LineCount
	file.LastModifiedBy = update.ActorID
	file.Version++
	file.UpdatedAt = time.Now()

	return nil
}

func (r *memFileRepo) UpdateLocation(_ context.Context, id string, update domain.FileLocationUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, ok := r.files[id]
	if !ok || file.IsDeleted {
		return fmt.Errorf("%w: file %s", domain.ErrNotFound, id)
	}

	for _, existing := range r.files {
		if existing.ID == id || existing.IsDeleted {
			continue
		}

		if existing.FolderID == update.FolderID && existing.Name == update.Name && existing.Extension == update.Extension {
			return fmt.Errorf("%w: file %s", domain.ErrConflict, update.Name)
		}
	}

	file.Name = update.Name
	file.Extension = update.Extension
	file.Category = update.Category
	file.MimeType = update.MimeType
	file.Path = update.Path
	file.BlobKey = update.BlobKey
	file.FolderID = update.FolderID
	file.LastModifiedBy = update.ActorID
	file.UpdatedAt = time.Now()

	return nil
}

func (r *memFileRepo) SetDeleted(_ context.Context, id string, deleted bool, actorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, ok := r.files[id]
	if !ok {
		return fmt.Errorf("%w: file %s", domain.ErrNotFound, id)
	}

	// Un-deleting re-enters the live uniqueness constraints, same as the
	// partial unique indexes.
	if !deleted {
		for _, existing := range r.files {
			if existing.ID == id || existing.IsDeleted {
				continue
			}

			if existing.FolderID == file.FolderID && existing.Name == file.Name && existing.Extension == file.Extension {
				return fmt.Errorf("%w: file %s", domain.ErrConflict, id)
			}

			if existing.BlobKey == file.BlobKey {
				return fmt.Errorf("%w: blob key %s", domain.ErrConflict, file.BlobKey)
			}
		}
	}

	file.IsDeleted = deleted
	file.LastModifiedBy = actorID
	file.UpdatedAt = time.Now()

	return nil
}

func (r *memFileRepo) SetDeletedByPathPrefix(_ context.Context, workspaceID, prefix string, deleted bool, actorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, file := range r.files {
		if file.WorkspaceID == workspaceID && strings.HasPrefix(file.Path, prefix+"/") {
			file.IsDeleted = deleted
			file.LastModifiedBy = actorID
		}
	}

	return nil
}

func (r *memFileRepo) SetDeletedByWorkspace(_ context.Context, workspaceID string, deleted bool, actorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, file := range r.files {
		if file.WorkspaceID == workspaceID {
			file.IsDeleted = deleted
			file.LastModifiedBy = actorID
		}
	}

	return nil
}

func (r *memFileRepo) ExistsLiveByBlobKey(_ context.Context, blobKey string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, file := range r.files {
		if file.BlobKey == blobKey && !file.IsDeleted {
			return true, nil
		}
	}

	return false, nil
}

func (r *memFileRepo) ExistsLiveSibling(_ context.Context, folderID, name, extension string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, file := range r.files {
		if file.FolderID == folderID && file.Name == name && file.Extension == extension && !file.IsDeleted {
			return true, nil
		}
	}

	return false, nil
}

// flakyBlobStore wraps the memory store with failure injection and an
// operation log, so tests can assert write ordering and failure bias.
type flakyBlobStore struct {
	*blob.MemoryStore

	mu         sync.Mutex
	failPut    bool
	failDelete bool
	ops        []string
}

func newFlakyBlobStore() *flakyBlobStore {
	return &flakyBlobStore{MemoryStore: blob.NewMemoryStore()}
}

func (s *flakyBlobStore) record(op, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ops = append(s.ops, op+" "+key)
}

func (s *flakyBlobStore) operations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.ops...)
}

func (s *flakyBlobStore) Put(ctx context.Context, key string, content []byte, contentType string) error {
	if s.failPut {
		return fmt.Errorf("%w: put %s", domain.ErrBlobWriteFailed, key)
	}

	s.record("put", key)

	return s.MemoryStore.Put(ctx, key, content, contentType)
}

func (s *flakyBlobStore) Delete(ctx context.Context, key string) error {
	if s.failDelete {
		return fmt.Errorf("%w: delete %s", domain.ErrBlobDeleteFailed, key)
	}

	s.record("delete", key)

	return s.MemoryStore.Delete(ctx, key)
}

func (s *flakyBlobStore) Copy(ctx context.Context, sourceKey, destinationKey string) error {
	if s.failPut {
		return fmt.Errorf("%w: copy %s", domain.ErrBlobWriteFailed, destinationKey)
	}

	s.record("copy", sourceKey+" -> "+destinationKey)

	return s.MemoryStore.Copy(ctx, sourceKey, destinationKey)
}

type fixture struct {
	workspaces *memWorkspaceRepo
	folders    *memFolderRepo
	files      *memFileRepo
	blobs      *flakyBlobStore

	workspaceManager domain.WorkspaceManager
	folderManager    domain.FolderManager
	fileManager      domain.FileManager
}

func newFixture() *fixture {
	workspaces := newMemWorkspaceRepo()
	folders := newMemFolderRepo()
	files := newMemFileRepo()
	blobs := newFlakyBlobStore()

	return &fixture{
		workspaces: workspaces,
		folders:    folders,
		files:      files,
		blobs:      blobs,
		workspaceManager: NewWorkspaceManager(WorkspaceManagerDependencies{
			WorkspaceRepository: workspaces,
			FolderRepository:    folders,
			FileRepository:      files,
			BlobStore:           blobs,
		}),
		folderManager: NewFolderManager(FolderManagerDependencies{
			WorkspaceRepository: workspaces,
			FolderRepository:    folders,
			FileRepository:      files,
			BlobStore:           blobs,
		}),
		fileManager: NewFileManager(FileManagerDependencies{
			WorkspaceRepository: workspaces,
			FolderRepository:    folders,
			FileRepository:      files,
			BlobStore:           blobs,
		}),
	}
}

func (f *fixture) mustCreateWorkspace(ctx context.Context, name, ownerID string) *domain.Workspace {
	workspace, err := f.workspaceManager.CreateWorkspace(ctx, domain.CreateWorkspaceParams{
		Name:    name,
		OwnerID: ownerID,
	})
	if err != nil {
		panic(err)
	}

	return workspace
}

func (f *fixture) mustCreateFolder(ctx context.Context, workspaceID string, parentID *string, name, actorID string) *domain.Folder {
	folder, err := f.folderManager.CreateFolder(ctx, domain.CreateFolderParams{
		WorkspaceID:    workspaceID,
		ParentFolderID: parentID,
		Name:           name,
		ActorID:        actorID,
	})
	if err != nil {
		panic(err)
	}

	return folder
}

func (f *fixture) mustUploadFile(ctx context.Context, workspaceID, folderID, fileName string, content []byte, actorID string) *domain.File {
	file, err := f.fileManager.UploadFile(ctx, domain.UploadFileParams{
		WorkspaceID: workspaceID,
		FolderID:    folderID,
		FileName:    fileName,
		Content:     content,
		ActorID:     actorID,
	})
	if err != nil {
		panic(err)
	}

	return file
}
