package media

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Store guarda las fotos de producto bajo un directorio raíz. Las rutas que
// viajan en el catálogo y en los respaldos son relativas al raíz y usan el
// prefijo configurado (inventory_pictures/ por defecto).
type Store struct {
	root   string
	prefix string
}

// NewStore construye el almacén y crea el directorio de fotos si no existe.
func NewStore(root, prefix string) (*Store, error) {
	dir := filepath.Join(root, prefix)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de medios: %w", err)
	}
	return &Store{root: root, prefix: prefix}, nil
}

// Prefix devuelve el prefijo de fotos usado en rutas y respaldos.
func (s *Store) Prefix() string { return s.prefix }

// Save escribe una foto y devuelve su ruta relativa (la que guarda el catálogo).
func (s *Store) Save(name string, data []byte) (string, error) {
	rel := path.Join(s.prefix, path.Base(name))
	if err := os.WriteFile(filepath.Join(s.root, filepath.FromSlash(rel)), data, 0o644); err != nil {
		return "", fmt.Errorf("guardar foto %q: %w", name, err)
	}
	return rel, nil
}

// Read devuelve el contenido de una foto por su ruta relativa.
func (s *Store) Read(rel string) ([]byte, error) {
	if !strings.HasPrefix(rel, s.prefix+"/") {
		return nil, fmt.Errorf("ruta de foto fuera del almacén: %q", rel)
	}
	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, fmt.Errorf("leer foto %q: %w", rel, err)
	}
	return data, nil
}

// Delete elimina una foto; ignora la ausencia.
func (s *Store) Delete(rel string) error {
	if rel == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("eliminar foto %q: %w", rel, err)
	}
	return nil
}

// ArchiveTo agrega todas las fotos al zip de respaldo bajo el prefijo.
func (s *Store) ArchiveTo(zw *zip.Writer) error {
	dir := filepath.Join(s.root, s.prefix)
	return filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return fmt.Errorf("crear entrada de zip %q: %w", rel, err)
		}
		f, err := os.Open(p)
		if err != nil {
			return fmt.Errorf("abrir foto %q: %w", rel, err)
		}
		defer f.Close()
		if _, err := io.Copy(w, f); err != nil {
			return fmt.Errorf("copiar foto %q al zip: %w", rel, err)
		}
		return nil
	})
}

// RestoreFromArchive reemplaza el contenido del almacén con las fotos del zip:
// vacía el directorio y extrae las entradas bajo el prefijo. Las entradas con
// rutas que escapan del prefijo se rechazan.
func (s *Store) RestoreFromArchive(zr *zip.Reader) error {
	dir := filepath.Join(s.root, s.prefix)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("vaciar directorio de fotos: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("recrear directorio de fotos: %w", err)
	}
	for _, entry := range zr.File {
		name := path.Clean(entry.Name)
		if !strings.HasPrefix(name, s.prefix+"/") || strings.Contains(name, "..") {
			continue
		}
		if entry.FileInfo().IsDir() {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return fmt.Errorf("abrir entrada de zip %q: %w", name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return fmt.Errorf("leer entrada de zip %q: %w", name, err)
		}
		target := filepath.Join(s.root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("crear directorio para %q: %w", name, err)
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return fmt.Errorf("extraer foto %q: %w", name, err)
		}
	}
	return nil
}
