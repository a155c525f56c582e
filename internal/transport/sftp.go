package transport

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// Compile-time interface check.
var _ FS = (*SFTPFS)(nil)

// SFTPFS reads a remote filesystem over SFTP.
type SFTPFS struct {
	client *sftp.Client
	ssh    *ssh.Client
}

// NewSFTPFS opens an SFTP session on an established SSH connection.
// Close releases both the session and the connection.
func NewSFTPFS(sshClient *ssh.Client) (*SFTPFS, error) {
	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		return nil, fmt.Errorf("sftp client: %w", err)
	}
	return &SFTPFS{client: sftpClient, ssh: sshClient}, nil
}

// NewSFTPFSFromClient wraps an existing SFTP client. The SSH connection, if
// any, stays owned by the caller.
func NewSFTPFSFromClient(client *sftp.Client) *SFTPFS {
	return &SFTPFS{client: client}
}

func (f *SFTPFS) Lstat(p string) (FileEntry, error) {
	info, err := f.client.Lstat(p)
	if err != nil {
		return FileEntry{}, err
	}
	entry := sftpFileInfoToEntry(info, p)
	if entry.IsSymlink {
		if target, err := f.client.ReadLink(p); err == nil {
			entry.LinkTarget = target
		}
	}
	return entry, nil
}

// ReadDir lists dir. The sftp client opens and closes the remote handle
// inside a single call.
func (f *SFTPFS) ReadDir(dir string) ([]string, error) {
	infos, err := f.client.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("sftp readdir %s: %w", dir, err)
	}
	children := make([]string, len(infos))
	for i, info := range infos {
		children[i] = path.Join(dir, info.Name())
	}
	return children, nil
}

// SameFile compares the server's canonical spelling of both paths. SFTP
// exposes no inode numbers.
func (f *SFTPFS) SameFile(a, b string) (bool, error) {
	ra, err := f.Canonical(a)
	if err != nil {
		return false, err
	}
	rb, err := f.Canonical(b)
	if err != nil {
		return false, err
	}
	return ra == rb, nil
}

func (f *SFTPFS) Canonical(p string) (string, error) {
	resolved, err := f.client.RealPath(p)
	if err != nil {
		return "", fmt.Errorf("sftp realpath %s: %w", p, err)
	}
	return resolved, nil
}

func (f *SFTPFS) OpenRead(p string) (io.ReadCloser, error) {
	return f.client.Open(p)
}

func (f *SFTPFS) Close() error {
	err := f.client.Close()
	if f.ssh != nil {
		if sshErr := f.ssh.Close(); sshErr != nil && err == nil {
			err = sshErr
		}
	}
	return err
}

func sftpFileInfoToEntry(info os.FileInfo, p string) FileEntry {
	entry := FileEntry{
		Path:      p,
		Size:      info.Size(),
		Mode:      info.Mode(),
		ModTime:   info.ModTime(),
		IsDir:     info.IsDir(),
		IsRegular: info.Mode().IsRegular(),
		IsSymlink: info.Mode()&os.ModeSymlink != 0,
	}
	if st, ok := info.Sys().(*sftp.FileStat); ok {
		entry.UID = st.UID
		entry.GID = st.GID
	}
	return entry
}
