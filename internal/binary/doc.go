// Package binary provides the mechanics for fetching and unpacking the
// QuickJS interpreter that qjsup manages.
//
// # Release layout
//
// QuickJS binary releases live under a single base URL:
//
//	{base}/LATEST.json                     {"version": "2024-01-13"}
//	{base}/quickjs-{platform}-{machine}-{version}.zip
//
// Each archive contains a member named "qjs", the interpreter itself.
//
// # Verification
//
// Upstream publishes no signatures or checksums, so verification is opt-in:
//   - GPG: a detached signature at "{archive url}.sig", checked against a
//     local keyring
//   - SHA256: a sha256sum-style file under the base URL
//
// # Usage
//
//	d := binary.NewDownloader()
//	info, err := binary.ConstructDownloadInfo(binary.DefaultBaseURL, target, version, binary.VerifyOptions{})
//	if err != nil {
//	    return err
//	}
//	archive, err := d.DownloadTemp(ctx, info.URL, func(p int) { fmt.Println(p) })
//	if err != nil {
//	    return err
//	}
//	defer os.Remove(archive)
//	path, err := binary.NewExtractor().ExtractMember(archive, dir, binary.Member)
//	if err != nil {
//	    return err
//	}
//	err = binary.SetMode(path, binary.InstallMode)
//
// # Architecture
//
//   - Downloader: single-attempt HTTP downloads with per-chunk progress
//   - Extractor: single-member zip extraction
//   - Verifier: optional GPG and SHA256 verification
//   - Platform: target descriptor and URL construction
package binary
