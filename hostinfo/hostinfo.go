// Package hostinfo gathers details about the real machine driving a
// simulation, distinct from anything the simulated kernel tracks about its
// own processes. Neither the dashboard nor the CLI reads it; the CLI's
// --cpus flag defaults to 1 regardless of the host's processor count.
package hostinfo

import (
	"bufio"
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

const (
	DefaultMachineIDPath = "/etc/machine-id"
	DefaultProcRoot      = "/proc"
	OSReleaseFilePath    = "/etc/os-release"
	OSKernelFilePath     = "sys/kernel/osrelease"
	CPUInfoFilePath      = "cpuinfo"
	UnknownKey           = "UNKNOWN"
)

// OSInfo describes the host's operating system.
type OSInfo struct {
	Name    string
	Version string
}

// HostKernelInfo describes the host machine's real kernel, as distinct from
// the kernel package's simulated one.
type HostKernelInfo struct {
	Type    string
	Version string
}

// Hardware describes the hardware available to run scheduler loops on.
type Hardware struct {
	CPU          CPUInfo
	Architecture string
}

// CPUInfo reports logical processor count, used to size how many
// Scheduler.Loop goroutines a driver should launch.
type CPUInfo struct {
	CPUCount int
}

// Reader retrieves host details. Swappable for tests and for non-Linux
// driver hosts.
type Reader interface {
	GetOS() (*OSInfo, error)
	GetKernel() (*HostKernelInfo, error)
	GetHardware() (*Hardware, error)
	GetHostID() (string, error)
}

// LinuxReader is the Linux-specific Reader implementation.
type LinuxReader struct {
	procDir       string
	machineIDPath string
}

type LinuxReaderConfig struct {
	ProcDirPath   string
	MachineIDPath string
}

func NewLinuxReader(conf LinuxReaderConfig) LinuxReader {
	if conf.ProcDirPath == "" {
		conf.ProcDirPath = DefaultProcRoot
	}
	if conf.MachineIDPath == "" {
		conf.MachineIDPath = DefaultMachineIDPath
	}
	return LinuxReader{
		procDir:       conf.ProcDirPath,
		machineIDPath: conf.MachineIDPath,
	}
}

// GetOS reads /etc/os-release, following the [freedesktop specification].
//
// [freedesktop specification]: https://www.freedesktop.org/software/systemd/man/os-release.html
func (h *LinuxReader) GetOS() (*OSInfo, error) {
	releaseFileData, err := os.ReadFile(OSReleaseFilePath)
	if err != nil {
		return nil, fmt.Errorf("hostinfo: locating OS details at %s: %w", OSReleaseFilePath, err)
	}
	kv := parseKeyValueFile(releaseFileData, "=")
	return &OSInfo{
		Name:    sanitizeValue(kv["ID"]),
		Version: sanitizeValue(kv["VERSION"]),
	}, nil
}

// GetKernel reports the host's real kernel release string, read from procDir.
func (h *LinuxReader) GetKernel() (*HostKernelInfo, error) {
	kernelFilePath := filepath.Join(h.procDir, OSKernelFilePath)
	data, err := os.ReadFile(kernelFilePath)
	if err != nil {
		return nil, fmt.Errorf("hostinfo: reading kernel version from %s: %w", kernelFilePath, err)
	}
	return &HostKernelInfo{
		Type:    "Linux",
		Version: strings.TrimSpace(string(data)),
	}, nil
}

// GetHardware reports CPU count and architecture, used to recommend a
// Scheduler.Loop goroutine count.
func (h *LinuxReader) GetHardware() (*Hardware, error) {
	return &Hardware{
		CPU:          h.getCPUInfo(),
		Architecture: getArch(),
	}, nil
}

// GetHostID resolves a stable host identifier from /etc/machine-id,
// standing in for distinguishing which machine ran a recorded scenario.
func (h *LinuxReader) GetHostID() (string, error) {
	midBytes, err := os.ReadFile(h.machineIDPath)
	if err != nil {
		return "", fmt.Errorf("hostinfo: resolving machine ID: %w", err)
	}
	id := strings.TrimSpace(string(midBytes))
	if id == "" {
		return "", fmt.Errorf("hostinfo: machine-id file %s present but empty", h.machineIDPath)
	}
	return id, nil
}

func (h *LinuxReader) getCPUInfo() CPUInfo {
	cpuInfoPath := filepath.Join(h.procDir, CPUInfoFilePath)
	f, err := os.Open(cpuInfoPath)
	if err != nil {
		log.Printf("hostinfo: reading %s: %s", cpuInfoPath, err)
		return CPUInfo{}
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		kv := strings.SplitN(scanner.Text(), ":", 2)
		if len(kv) != 2 {
			continue
		}
		if strings.TrimSpace(kv[0]) == "processor" {
			count++
		}
	}
	return CPUInfo{CPUCount: count}
}

// getArch is the equivalent of `uname -m`.
func getArch() string {
	var utsname unix.Utsname
	if err := unix.Uname(&utsname); err != nil {
		return UnknownKey
	}
	return unix.ByteSliceToString(utsname.Machine[:])
}

func sanitizeValue(v string) string {
	return strings.Trim(v, "\"")
}

// parseKeyValueFile parses $KEY<sep>$VALUE lines, ignoring anything else.
func parseKeyValueFile(contents []byte, sep string) map[string]string {
	out := map[string]string{}
	scanner := bufio.NewScanner(bytes.NewReader(contents))
	for scanner.Scan() {
		kv := strings.SplitN(scanner.Text(), sep, 2)
		if len(kv) == 2 {
			out[kv[0]] = kv[1]
		}
	}
	return out
}
