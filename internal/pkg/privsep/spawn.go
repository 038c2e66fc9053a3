// Package privsep implements the fork + privilege-drop split spec.md §9
// calls for: the parent process stays root and runs the privileged
// worker; a re-exec'd child process drops to an unprivileged uid/gid and
// runs the HTTP front-end. The two communicate over one end each of a
// socketpair created before the re-exec (spec.md §5 "Process model").
package privsep

import (
	"fmt"
	"net"
	"os"
	"os/exec"
	"os/user"
	"strconv"
	"syscall"

	"github.com/HappyLadySauce/errors"
)

// WorkerFDFlag is the hidden flag the re-exec'd child process recognizes
// to find its end of the socketpair; it is never a user-facing flag.
const WorkerFDFlag = "--worker-fd"

// childExtraFileFD is the index ExtraFiles places the worker socket at:
// exec.Cmd.ExtraFiles[0] always becomes fd 3 in the child (0,1,2 are
// stdin/stdout/stderr).
const childExtraFileFD = 3

// Spawn creates a connected socketpair, re-execs the current binary with
// WorkerFDFlag pointing at the child's end, and returns the parent's
// (worker) end plus a handle to the child process. The parent keeps root
// and must immediately start reading commands from workerConn; the child,
// on noticing WorkerFDFlag in its own arguments, calls DropPrivileges and
// ChildWorkerConn to obtain its end.
func Spawn(exe string, extraArgs ...string) (workerConn net.Conn, child *exec.Cmd, err error) {
	fds, err := syscall.Socketpair(syscall.AF_UNIX, syscall.SOCK_STREAM, 0)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create privsep socketpair")
	}

	parentFile := os.NewFile(uintptr(fds[0]), "privsep-worker")
	childFile := os.NewFile(uintptr(fds[1]), "privsep-http")

	args := append(append([]string{}, extraArgs...), fmt.Sprintf("%s=%d", WorkerFDFlag, childExtraFileFD))
	cmd := exec.Command(exe, args...)
	cmd.ExtraFiles = []*os.File{childFile}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()

	if err := cmd.Start(); err != nil {
		parentFile.Close()
		childFile.Close()
		return nil, nil, errors.Wrap(err, "failed to re-exec HTTP front-end child")
	}
	// The parent's own copy of the child's fd is no longer needed once the
	// child has inherited it.
	childFile.Close()

	conn, err := net.FileConn(parentFile)
	if err != nil {
		parentFile.Close()
		return nil, nil, errors.Wrap(err, "failed to wrap privsep socket as net.Conn")
	}
	parentFile.Close()

	return conn, cmd, nil
}

// ChildWorkerConn recovers the child's end of the socketpair given the fd
// number parsed from WorkerFDFlag.
func ChildWorkerConn(fd int) (net.Conn, error) {
	f := os.NewFile(uintptr(fd), "privsep-http")
	conn, err := net.FileConn(f)
	if err != nil {
		return nil, errors.Wrap(err, "failed to wrap inherited privsep fd as net.Conn")
	}
	return conn, nil
}

// DropPrivileges switches the current process to userName/groupName. It
// must run before the child binds any listener, and must not be called by
// the worker process (which needs to keep root).
func DropPrivileges(userName, groupName string) error {
	u, err := user.Lookup(userName)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("failed to look up user %q", userName))
	}
	g, err := user.LookupGroup(groupName)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("failed to look up group %q", groupName))
	}

	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return errors.Wrap(err, "failed to parse uid")
	}
	gid, err := strconv.Atoi(g.Gid)
	if err != nil {
		return errors.Wrap(err, "failed to parse gid")
	}

	// Order matters: groups and gid must drop before uid, or the process
	// loses the permission to change them at all.
	if err := syscall.Setgroups([]int{gid}); err != nil {
		return errors.Wrap(err, "failed to drop supplementary groups")
	}
	if err := syscall.Setgid(gid); err != nil {
		return errors.Wrap(err, "failed to setgid")
	}
	if err := syscall.Setuid(uid); err != nil {
		return errors.Wrap(err, "failed to setuid")
	}

	return nil
}
