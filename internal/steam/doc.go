// Package steam downloads game depots with steamcmd.
//
// A download is one steamcmd session: login, app info, then one
// force_install_dir/app_update pair per platform. The session is first tried
// with the cached login; when steamcmd asks for credentials the caller
// supplies them through a CredentialsFunc and the session is repeated.
// Install folders are created as App_<id> and renamed once the real game
// name is known.
package steam
