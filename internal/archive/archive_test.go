package archive

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func archiveMembers(t *testing.T, path string) []string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		t.Fatal(err)
	}
	defer gz.Close()

	var names []string
	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		names = append(names, header.Name)
	}
	sort.Strings(names)
	return names
}

func TestPackArchivesOnlyReadFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "sample_R1.fastq.gz"), "AGCT")
	writeFile(t, filepath.Join(dir, "sample_R2.fastq.gz"), "TCGA")
	writeFile(t, filepath.Join(dir, "RunInfo.xml"), "<run/>")

	got, err := Pack(context.Background(), dir, "210525_AG_Lab")
	if err != nil {
		t.Fatalf("Pack returned error: %v", err)
	}
	if want := filepath.Join(dir, "210525_AG_Lab.tar.gz"); got != want {
		t.Fatalf("Pack = %q, want %q", got, want)
	}

	members := archiveMembers(t, got)
	want := []string{"sample_R1.fastq.gz", "sample_R2.fastq.gz"}
	if len(members) != len(want) {
		t.Fatalf("unexpected members: %v", members)
	}
	for i := range want {
		if members[i] != want[i] {
			t.Fatalf("member[%d] = %q, want %q", i, members[i], want[i])
		}
	}
}

func TestPackReusesExistingArchive(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "run.tar.gz")
	writeFile(t, existing, "pre-existing bytes")

	got, err := Pack(context.Background(), dir, "run")
	if err != nil {
		t.Fatalf("Pack returned error: %v", err)
	}
	if got != existing {
		t.Fatalf("Pack = %q, want %q", got, existing)
	}
	data, err := os.ReadFile(existing)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "pre-existing bytes" {
		t.Fatal("existing archive was overwritten")
	}
}

func TestPackFailsWithoutReadFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "notes.txt"), "n")

	if _, err := Pack(context.Background(), dir, "run"); err == nil {
		t.Fatal("expected error when no fastq.gz files present")
	}
}

func TestMD5File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "archive.tar.gz")
	writeFile(t, path, "hi")

	got, err := MD5File(path)
	if err != nil {
		t.Fatalf("MD5File returned error: %v", err)
	}
	sum := md5.Sum([]byte("hi"))
	if want := hex.EncodeToString(sum[:]); got != want {
		t.Fatalf("MD5File = %q, want %q", got, want)
	}
}

func TestPublishMovesArchive(t *testing.T) {
	staging := t.TempDir()
	public := t.TempDir()
	source := filepath.Join(staging, "run.tar.gz")
	writeFile(t, source, "payload")
	checksum, err := MD5File(source)
	if err != nil {
		t.Fatal(err)
	}

	pub := NewPublisher(public, nil)
	target, moved, err := pub.Publish(source, checksum)
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if !moved {
		t.Fatal("expected archive to be moved")
	}
	if want := filepath.Join(public, "run.tar.gz"); target != want {
		t.Fatalf("Publish target = %q, want %q", target, want)
	}
	if _, err := os.Stat(source); !os.IsNotExist(err) {
		t.Fatal("expected source to be gone after move")
	}
}

func TestPublishKeepsMatchingArchive(t *testing.T) {
	staging := t.TempDir()
	public := t.TempDir()
	source := filepath.Join(staging, "run.tar.gz")
	writeFile(t, source, "payload")
	writeFile(t, filepath.Join(public, "run.tar.gz"), "payload")
	checksum, err := MD5File(source)
	if err != nil {
		t.Fatal(err)
	}

	pub := NewPublisher(public, nil)
	_, moved, err := pub.Publish(source, checksum)
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if moved {
		t.Fatal("expected existing matching archive to be kept")
	}
	if _, err := os.Stat(source); err != nil {
		t.Fatal("expected source to remain when target matched")
	}
}

func TestPublishReplacesStaleArchive(t *testing.T) {
	staging := t.TempDir()
	public := t.TempDir()
	source := filepath.Join(staging, "run.tar.gz")
	writeFile(t, source, "new payload")
	writeFile(t, filepath.Join(public, "run.tar.gz"), "old payload")
	checksum, err := MD5File(source)
	if err != nil {
		t.Fatal(err)
	}

	pub := NewPublisher(public, nil)
	target, moved, err := pub.Publish(source, checksum)
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if !moved {
		t.Fatal("expected stale archive to be replaced")
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new payload" {
		t.Fatalf("unexpected published content: %q", data)
	}
}

func TestPruneRemovesOnlyExpiredFiles(t *testing.T) {
	public := t.TempDir()
	old := filepath.Join(public, "old.tar.gz")
	fresh := filepath.Join(public, "fresh.tar.gz")
	writeFile(t, old, "old")
	writeFile(t, fresh, "fresh")

	stale := time.Now().AddDate(0, 0, -30)
	if err := os.Chtimes(old, stale, stale); err != nil {
		t.Fatal(err)
	}

	result := Prune(nil, public, 14)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected prune errors: %v", result.Errors)
	}
	if len(result.Removed) != 1 || result.Removed[0] != old {
		t.Fatalf("unexpected removals: %v", result.Removed)
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatal("fresh file should survive pruning")
	}
}

func TestPruneDisabledByZeroRetention(t *testing.T) {
	public := t.TempDir()
	old := filepath.Join(public, "old.tar.gz")
	writeFile(t, old, "old")
	stale := time.Now().AddDate(0, 0, -300)
	if err := os.Chtimes(old, stale, stale); err != nil {
		t.Fatal(err)
	}

	result := Prune(nil, public, 0)
	if len(result.Removed) != 0 {
		t.Fatalf("expected no removals, got %v", result.Removed)
	}
	if _, err := os.Stat(old); err != nil {
		t.Fatal("file should survive when retention is disabled")
	}
}
